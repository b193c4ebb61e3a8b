// Package row implements the bitemporal data model of spec §3: the Row,
// Schema, and Batch types, the EFF_INF/ASOF_INF sentinel values, and the
// invariants every row must satisfy before it can be reconciled.
package row

import (
	"time"

	"github.com/roach88/bitemporal/internal/value"
)

// EFFInf is the distinguished far-future effective date meaning
// "currently in effect" when stored in a row's EffectiveTo (spec §3).
var EFFInf = value.NewDate(time.Date(2260, time.December, 31, 0, 0, 0, 0, time.UTC))

// ASOFInf is the distinguished far-future as-of timestamp marking the
// currently-known version when stored in a row's AsOfTo (spec §3).
var ASOFInf = value.NewTimestamp(time.Date(2260, time.December, 31, 23, 59, 59, 0, time.UTC))

// Row is the logical tuple of spec §3: an identity projection, a value
// projection, and the four temporal columns. Identity and value columns
// are opaque to this package — only Schema knows their names and order.
type Row struct {
	// Identity is the ordered identity-column tuple (Schema.IDColumns
	// order). Opaque beyond grouping/equality (spec §3).
	Identity value.Tuple

	// Values is the ordered value-column tuple (Schema.ValueColumns
	// order). Opaque beyond fingerprinting (spec §3).
	Values value.Tuple

	EffectiveFrom value.Date
	EffectiveTo   value.Date
	AsOfFrom      value.Timestamp
	AsOfTo        value.Timestamp

	// Fingerprint is the digest of Values, attached during reconciliation
	// preparation (spec §4.3.1). Empty until computed.
	Fingerprint string
}

// IsLive reports whether the row belongs to the live projection: its
// as_of interval is still open (AsOfTo == ASOFInf), per spec §3.
func (r Row) IsLive() bool {
	return r.AsOfTo.Equal(ASOFInf)
}

// OverlapsEffective reports whether r's effective interval
// [EffectiveFrom, EffectiveTo) intersects [from, to).
func (r Row) OverlapsEffective(from, to value.Date) bool {
	return r.EffectiveFrom.Before(to) && from.Before(r.EffectiveTo)
}

// WithFingerprint returns a copy of r with Fingerprint set.
func (r Row) WithFingerprint(fp string) Row {
	r.Fingerprint = fp
	return r
}

// Expired returns a copy of r as an expiration descriptor: identical row
// key, AsOfTo rewritten to systemTime (spec §4.3.4 "Expirations copy the
// full original row with as_of_to = system_time").
func (r Row) Expired(systemTime value.Timestamp) Row {
	r.AsOfTo = systemTime
	return r
}
