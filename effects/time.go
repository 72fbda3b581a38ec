package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

type TimeSpan = timespan.TimeSpan

func NewTimeSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}

// TimeBounded is implemented by values that cover a period of time.
type TimeBounded interface {
	TimeSpan() TimeSpan
}
