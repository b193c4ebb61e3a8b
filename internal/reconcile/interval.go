package reconcile

import "github.com/roach88/bitemporal/internal/value"

// interval is a half-open effective-time span [from, to).
type interval struct {
	from value.Date
	to   value.Date
}

func maxDate(a, b value.Date) value.Date {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b value.Date) value.Date {
	if a.Before(b) {
		return a
	}
	return b
}

// subtract removes every piece of covered (assumed possibly unsorted,
// possibly overlapping with each other) from [from, to), returning the
// remaining pieces in ascending order. Used to compute the remainder
// segments of a current row not overwritten by any update (spec
// §4.3.2 step 2).
func subtract(from, to value.Date, covered []interval) []interval {
	if len(covered) == 0 {
		return []interval{{from: from, to: to}}
	}

	// Clip each covering interval to [from, to) and sort by from.
	clipped := make([]interval, 0, len(covered))
	for _, c := range covered {
		cf := maxDate(c.from, from)
		ct := minDate(c.to, to)
		if cf.Before(ct) {
			clipped = append(clipped, interval{from: cf, to: ct})
		}
	}
	if len(clipped) == 0 {
		return []interval{{from: from, to: to}}
	}
	sortIntervals(clipped)

	// Merge overlapping/touching covering intervals, then take the gaps.
	merged := make([]interval, 0, len(clipped))
	cur := clipped[0]
	for _, c := range clipped[1:] {
		if !c.from.After(cur.to) {
			cur.to = maxDate(cur.to, c.to)
			continue
		}
		merged = append(merged, cur)
		cur = c
	}
	merged = append(merged, cur)

	var remainders []interval
	cursor := from
	for _, m := range merged {
		if cursor.Before(m.from) {
			remainders = append(remainders, interval{from: cursor, to: m.from})
		}
		cursor = maxDate(cursor, m.to)
	}
	if cursor.Before(to) {
		remainders = append(remainders, interval{from: cursor, to: to})
	}
	return remainders
}

func sortIntervals(ivs []interval) {
	for i := 1; i < len(ivs); i++ {
		for j := i; j > 0 && ivs[j].from.Before(ivs[j-1].from); j-- {
			ivs[j], ivs[j-1] = ivs[j-1], ivs[j]
		}
	}
}
