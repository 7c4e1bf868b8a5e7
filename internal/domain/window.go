package domain

import "time"

// LookaheadWindow computes the inclusive range [startOfDay(now),
// endOfDay(now+days)] in now's location. Due dates landing exactly on either
// boundary are inside the window.
func LookaheadWindow(now time.Time, days int) (start, end time.Time) {
	y, m, d := now.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	last := now.AddDate(0, 0, days)
	y, m, d = last.Date()
	end = time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), last.Location())
	return start, end
}
