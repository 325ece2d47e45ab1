package timex

import "time"

// Pace splits budget evenly across n iterations, truncated to whole
// milliseconds. n <= 0 returns budget unchanged.
func Pace(budget time.Duration, n int) time.Duration {
	if n <= 0 {
		return budget
	}
	ms := budget.Milliseconds() / int64(n)
	return time.Duration(ms) * time.Millisecond
}

// Sleeper blocks for d. time.Sleep satisfies it.
type Sleeper func(d time.Duration)
