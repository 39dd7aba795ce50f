package helpers

import "time"

// Slot is one bookable delivery window.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// GenerateSlots produces count delivery windows of the given interval,
// starting at the next interval boundary after now.
func GenerateSlots(now time.Time, count int, interval time.Duration) []Slot {
	if count <= 0 || interval <= 0 {
		return []Slot{}
	}

	start := now.Truncate(interval)
	if !start.After(now) {
		start = start.Add(interval)
	}

	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		s := start.Add(time.Duration(i) * interval)
		e := s.Add(interval)
		slots = append(slots, Slot{
			Start: s,
			End:   e,
			Label: s.Format("15:04") + " - " + e.Format("15:04"),
		})
	}
	return slots
}
