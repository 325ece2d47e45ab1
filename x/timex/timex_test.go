package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaceEvenSplit(t *testing.T) {
	assert.Equal(t, 12*time.Second, Pace(time.Minute, 5))
}

func TestPaceSumsToBudgetWithinRounding(t *testing.T) {
	budget := 10 * time.Second
	for n := 1; n <= 13; n++ {
		total := time.Duration(n) * Pace(budget, n)
		assert.LessOrEqual(t, total, budget)
		assert.Less(t, budget-total, time.Duration(n)*time.Millisecond, "n=%d", n)
	}
}

func TestPaceNonPositiveCount(t *testing.T) {
	assert.Equal(t, time.Minute, Pace(time.Minute, 0))
}
