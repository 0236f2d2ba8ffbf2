package reservation

import "time"

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2) share
// at least one instant: s1 < e2 && e1 > s2. Touching intervals (e1 == s2) do
// not overlap. Every overlap test in this package and in calendar bucketing
// goes through this predicate.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// OverlapsWindow reports whether the reservation's interval overlaps
// [start, end).
func (r *Reservation) OverlapsWindow(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}
