package mathx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapIntInvertedRange(t *testing.T) {
	// Dry anchor maps to 0, wet anchor to 100.
	assert.Equal(t, 0, MapInt(3207, 3207, 1475, 0, 100))
	assert.Equal(t, 100, MapInt(1475, 3207, 1475, 0, 100))
	assert.Equal(t, 47, MapInt(2380, 3207, 1475, 0, 100))
}

func TestMapIntExtrapolates(t *testing.T) {
	assert.Equal(t, -11, MapInt(3400, 3207, 1475, 0, 100))
	assert.Equal(t, 111, MapInt(1275, 3207, 1475, 0, 100))
}

func TestMapIntDegenerate(t *testing.T) {
	assert.Equal(t, int32(7), MapInt[int32](5, 10, 10, 7, 9))
}

func TestClampAndBetween(t *testing.T) {
	assert.Equal(t, 0, Clamp(-4, 0, 100))
	assert.Equal(t, 100, Clamp(140, 100, 0))
	assert.Equal(t, 55, Clamp(55, 0, 100))
	assert.True(t, Between(3, 5, 1))
	assert.False(t, Between(6, 1, 5))
}
