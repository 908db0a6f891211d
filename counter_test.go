package counter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	var c Counter

	assert.Equal(t, Default, c.Value(), "an empty counter should be at the default")

	assert.True(t, c.Increment())
	assert.True(t, c.Increment())
	assert.Equal(t, 2, c.Value())

	assert.True(t, c.Decrement())
	assert.True(t, c.Increment())
	assert.Equal(t, 2, c.Value(), "increments and decrements should cancel out")
}

func TestCounterBounds(t *testing.T) {
	c := New(Max)
	assert.False(t, c.Increment())
	assert.Equal(t, Max, c.Value())
	assert.False(t, c.CanIncrement())
	assert.True(t, c.CanDecrement())

	c = New(Min)
	assert.False(t, c.Decrement())
	assert.Equal(t, Min, c.Value())
	assert.False(t, c.CanDecrement())
	assert.True(t, c.CanIncrement())
}

func TestSetValueClamps(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 0},
		{in: 42, want: 42},
		{in: Max, want: Max},
		{in: Max + 1, want: Max},
		{in: 1 << 30, want: Max},
		{in: Min, want: Min},
		{in: Min - 1, want: Min},
		{in: -(1 << 30), want: Min},
	}
	for _, tt := range tests {
		var c Counter
		c.SetValue(tt.in)
		assert.Equal(t, tt.want, c.Value(), "SetValue(%d)", tt.in)
	}
}

func TestRandomWalkStaysInBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	c := New(Max - 10)
	for i := 0; i < 100000; i++ {
		if r.Intn(2) == 0 {
			c.Increment()
		} else {
			c.Decrement()
		}
		require.GreaterOrEqual(t, c.Value(), Min)
		require.LessOrEqual(t, c.Value(), Max)
	}

	// push hard against each bound
	for i := 0; i < 2*(Max-Min); i++ {
		c.Decrement()
	}
	require.Equal(t, Min, c.Value())
	for i := 0; i < 2*(Max-Min); i++ {
		c.Increment()
	}
	require.Equal(t, Max, c.Value())
}

func TestState(t *testing.T) {
	s := New(Max).State()
	assert.Equal(t, State{Value: Max, CanIncrement: false, CanDecrement: true}, s)
	assert.Equal(t, "9999", s.Label())

	s = New(Min).State()
	assert.Equal(t, State{Value: Min, CanIncrement: true, CanDecrement: false}, s)
	assert.Equal(t, "-9999", s.Label())
}
