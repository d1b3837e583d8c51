package board

import (
	"time"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

// Streak counts consecutive days with at least one completed task.
type Streak struct {
	Current  int    `json:"current"`
	Best     int    `json:"best"`
	LastDate string `json:"lastDate,omitempty"`
}

// Record counts a completion on today (YYYY-MM-DD) and reports whether the
// streak changed. A second completion on the same day is a no-op, a gap of
// more than one day restarts at 1, and a lastDate in the future leaves the
// count alone.
func (s Streak) Record(today string) (Streak, bool) {
	if s.LastDate == today {
		return s, false
	}

	next := s
	last, lastErr := time.Parse(dto.DateLayout, s.LastDate)
	now, nowErr := time.Parse(dto.DateLayout, today)
	switch {
	case s.LastDate == "" || lastErr != nil || nowErr != nil:
		next.Current = 1
	default:
		days := int(now.Sub(last).Hours() / 24)
		switch {
		case days == 1:
			next.Current++
		case days > 1:
			next.Current = 1
		}
	}

	if next.Current > next.Best {
		next.Best = next.Current
	}
	next.LastDate = today
	return next, true
}
