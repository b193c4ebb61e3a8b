package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDateTruncatesTimeOfDay(t *testing.T) {
	d := NewDate(time.Date(2024, 6, 1, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, 0, d.Time().Hour())
	assert.Equal(t, 0, d.Time().Minute())
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	next := d.AddDays(1)
	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
}

func TestNewTimestampTruncatesSubMicrosecond(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 6, 1, 0, 0, 0, 999, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), ts.Time())
}

func TestTimestampOrdering(t *testing.T) {
	a := NewTimestamp(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	b := NewTimestamp(time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
}
