package model

import "time"

// StatusPending is stored when a booking is submitted without a status.
const StatusPending = "pending"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Booking struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Email     string    `json:"email"`
	Slot      string    `json:"slot"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Line is the dashboard rendering of a booking.
func (b Booking) Line() string {
	return b.Customer + " - " + b.Slot
}

// bookable windows, in display order
var slots = []string{
	"9:00 AM - 10:00 AM",
	"10:00 AM - 11:00 AM",
	"11:00 AM - 12:00 PM",
}

// Slots returns the fixed set of bookable slots.
func Slots() []string {
	return append([]string(nil), slots...)
}

func IsSlot(s string) bool {
	for _, v := range slots {
		if v == s {
			return true
		}
	}
	return false
}
