package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a deterministic, type-tagged byte encoding of
// a value Tuple, suitable for hashing (spec §4.1: "a fixed canonical
// encoding of each value (type-tagged, lossless)").
//
// Key properties, carried over from the teacher's RFC 8785 canonical JSON
// marshaler (internal/ir/canonical.go) even though we encode a flat tuple
// rather than a JSON object:
//   - every element is prefixed with a one-byte type tag, so Int(3) and
//     Float(3.0) never produce the same bytes;
//   - strings are NFC-normalized before encoding, so two byte-distinct
//     but canonically-equivalent Unicode strings fingerprint identically;
//   - the encoding is a pure function of the tuple — no locale, no map
//     iteration order, nothing non-deterministic.
func MarshalCanonical(t Tuple) ([]byte, error) {
	var buf bytes.Buffer
	for i, v := range t {
		if i > 0 {
			buf.WriteByte(0x1f) // unit separator between tuple elements
		}
		if err := marshalCanonicalValue(&buf, v); err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func marshalCanonicalValue(buf *bytes.Buffer, v Value) error {
	tag, err := typeTag(v)
	if err != nil {
		return err
	}
	buf.WriteByte(tag)
	buf.WriteByte(0x00) // domain separator between tag and payload

	switch val := v.(type) {
	case Null:
		// No payload: the tag alone is the encoding.
	case Bool:
		if val {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
	case Float:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Errorf("value: NaN/Inf floats are forbidden in canonical encoding")
		}
		// %x gives an exact, round-trippable hex float so that no two
		// distinct float64 bitpatterns ever canonicalize to the same text.
		fmt.Fprintf(buf, "%x", float64(val))
	case String:
		canonical, err := canonicalString(string(val))
		if err != nil {
			return err
		}
		buf.Write(canonical)
	case Date:
		buf.WriteString(val.Time().Format("2006-01-02"))
	case Timestamp:
		buf.WriteString(val.Time().Format("2006-01-02T15:04:05.000000"))
	default:
		return fmt.Errorf("value: unsupported type %T", v)
	}
	return nil
}

// canonicalString produces an NFC-normalized, non-HTML-escaped JSON string
// literal for s. Adapted from internal/ir/canonical.go's
// marshalCanonicalString: same normalization and escaping rules, because
// two producers emitting the same logical string must fingerprint
// identically regardless of Unicode composition or which JSON encoder
// wrote the original batch.
func canonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}
