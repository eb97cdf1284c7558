package loader

import (
	"fmt"
	"time"
)

// Status is the progress of one import run.
type Status struct {
	Imported  int64
	Total     int64
	Timesteps int64
	Commits   int64
	StartTime time.Time
	Duration  time.Duration
}

// Fraction is the share of the pre-pass count already written, 0 for an empty source.
func (s Status) Fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Imported) / float64(s.Total)
}

func (s Status) String() string {
	return fmt.Sprintf(
		"Records: (%d / %d), Timesteps: %d, Commits: %d",
		s.Imported,
		s.Total,
		s.Timesteps,
		s.Commits,
	)
}
