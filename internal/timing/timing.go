// Package timing formats elapsed durations and loop progress for log records.
package timing

import (
	"fmt"
	"time"
)

// FormatDuration renders d with a unit suited to its magnitude:
// µs up to 5ms, ms up to 100ms, then s, min, hr and day.
func FormatDuration(d time.Duration) string {
	s := d.Seconds()
	switch {
	case s <= 0.005:
		return fmt.Sprintf("%.0fus", s*1e6)
	case s <= 0.1:
		return fmt.Sprintf("%.1fms", s*1e3)
	case s > 86400:
		return fmt.Sprintf("%.2fday", s/86400)
	case s > 1800:
		return fmt.Sprintf("%.2fhr", s/3600)
	case s > 60:
		return fmt.Sprintf("%.2fmin", s/60)
	default:
		return fmt.Sprintf("%.2fs", s)
	}
}

// Loop summarises a loop started at start with done of total items finished:
// average time per item, estimated remaining time, total elapsed time and
// progress percentage.
func Loop(start time.Time, done, total int) string {
	return loop(time.Since(start), done, total)
}

func loop(elapsed time.Duration, done, total int) string {
	var avg, rem time.Duration
	if done > 0 {
		avg = elapsed / time.Duration(done)
		if total > done {
			rem = avg * time.Duration(total-done)
		}
	}

	progress := 100.0
	if total > 0 {
		progress = float64(done) / float64(total) * 100
	}

	return fmt.Sprintf("[Avg: %s | Rem: %s | Tot: %s || %.1f%%]",
		FormatDuration(avg), FormatDuration(rem), FormatDuration(elapsed), progress)
}
