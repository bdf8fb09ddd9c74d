package utils

import (
	"sort"
	"time"

	"github.com/meinhoongagan/amigos-app/models"
)

// SlotDuration is the length of a bookable slot.
const SlotDuration = time.Hour

type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// HourlySlots lists the one-hour slots on day that fit inside one of windows
// and do not collide with a non-cancelled booking.
func HourlySlots(day time.Time, windows []models.Availability, bookings []models.Booking, loc *time.Location) []Slot {
	dayStart, dayEnd := DayBounds(day, loc)

	slots := []Slot{}
	for _, w := range windows {
		start, end := w.StartTime, w.EndTime
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}

		for s := start; !s.Add(SlotDuration).After(end); s = s.Add(SlotDuration) {
			e := s.Add(SlotDuration)
			taken := false
			for i := range bookings {
				if bookings[i].Overlaps(s, e) {
					taken = true
					break
				}
			}
			if !taken {
				slots = append(slots, Slot{StartTime: ToLocal(s, loc), EndTime: ToLocal(e, loc)})
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	return slots
}
