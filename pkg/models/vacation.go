package models

import "time"

const (
	VacationAnnual      = `ANNUAL`
	VacationHalfDay     = `HALF_DAY`
	VacationSick        = `SICK`
	VacationFamilyEvent = `FAMILY_EVENT`
	VacationOfficial    = `OFFICIAL`
	VacationReward      = `REWARD`
)

var vacationTypes = map[string]bool{
	VacationAnnual:      true,
	VacationHalfDay:     true,
	VacationSick:        true,
	VacationFamilyEvent: true,
	VacationOfficial:    true,
	VacationReward:      true,
}

func IsVacationType(t string) bool {
	return vacationTypes[t]
}

// VacationHistory is a leave record consumed against a user's yearly allowance.
type VacationHistory struct {
	ID             int       `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	Amount         float64   `json:"amount" db:"amount"`
	EventStartDate time.Time `json:"eventStartDate" db:"event_start_date"`
	EventEndDate   time.Time `json:"eventEndDate" db:"event_end_date"`
	Type           string    `json:"type" db:"type"`
	Notified       bool      `json:"-" db:"notified"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type VacationRequest struct {
	UserID         string    `json:"userId"`
	Type           string    `json:"type"`
	EventStartDate time.Time `json:"eventStartDate"`
	EventEndDate   time.Time `json:"eventEndDate"`
	Amount         float64   `json:"amount"`
}

type VacationNotify struct {
	VacationID     int       `db:"id"`
	UserID         string    `db:"user_id"`
	Type           string    `db:"type"`
	EventStartDate time.Time `db:"event_start_date"`
	EventEndDate   time.Time `db:"event_end_date"`
}
