package calendar

import "time"

// InvalidAmount is returned by VacationAmount when start is after end.
const InvalidAmount = -1.0

var (
	afternoonStartHours = map[int]bool{13: true, 14: true, 15: true, 16: true}
	afternoonEndHours   = map[int]bool{13: true, 14: true, 15: true, 16: true}
)

// VacationAmount returns the number of vacation days between start and end in
// half-day steps. A request that starts in the afternoon or ends around midday
// consumes half of that day.
func VacationAmount(start, end time.Time) float64 {
	if start.After(end) {
		return InvalidAmount
	}
	amount := float64(DaysBetween(start, end) + 1)
	if afternoonStartHours[start.Hour()] {
		amount -= 0.5
	}
	if afternoonEndHours[end.Hour()] {
		amount -= 0.5
	}
	return amount
}
