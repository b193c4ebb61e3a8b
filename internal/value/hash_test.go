package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	tuple := Tuple{String("widget"), Int(3), Bool(true)}

	fp1, err := Fingerprint(tuple)
	require.NoError(t, err)
	fp2, err := Fingerprint(tuple)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)
}

func TestFingerprintDistinguishesValues(t *testing.T) {
	a := Tuple{String("widget"), Int(3)}
	b := Tuple{String("widget"), Int(4)}

	fpA := MustFingerprint(a)
	fpB := MustFingerprint(b)

	assert.NotEqual(t, fpA, fpB)
}

func TestFingerprintDistinguishesTypes(t *testing.T) {
	intTuple := Tuple{Int(3)}
	floatTuple := Tuple{Float(3.0)}

	assert.NotEqual(t, MustFingerprint(intTuple), MustFingerprint(floatTuple))
}

func TestFingerprintDistinguishesNullFromConcrete(t *testing.T) {
	nullTuple := Tuple{Null{}}
	emptyStringTuple := Tuple{String("")}

	assert.NotEqual(t, MustFingerprint(nullTuple), MustFingerprint(emptyStringTuple))
}

func TestFingerprintSensitiveToOrder(t *testing.T) {
	a := Tuple{String("x"), Int(1)}
	b := Tuple{Int(1), String("x")}

	// Different element types at the same position still happen to produce
	// different tags, but to isolate ordering sensitivity we compare two
	// tuples that truly only differ by order using same-typed neighbors.
	c := Tuple{String("x"), String("y")}
	d := Tuple{String("y"), String("x")}

	assert.NotEqual(t, MustFingerprint(a), MustFingerprint(b))
	assert.NotEqual(t, MustFingerprint(c), MustFingerprint(d))
}
