package models

import (
	"time"
)

// Course defines the course model based on the 'courses' table
type Course struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Title       string     `json:"title" db:"title" example:"Backend Engineering with Go"`
	Slug        string     `json:"slug" db:"slug" example:"backend-engineering-with-go"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category" example:"software"`
	Level       string     `json:"level" db:"level" example:"BEGINNER"`
	PriceKobo   int64      `json:"priceKobo" db:"price_kobo" example:"15000000"` // minor currency unit
	MaxSeats    int        `json:"maxSeats" db:"max_seats" example:"30"`
	TrainerID   *int64     `json:"trainerId,omitempty" db:"trainer_id"`
	Published   bool       `json:"published" db:"published"`
	StartsAt    *time.Time `json:"startsAt,omitempty" db:"starts_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Trainer    *User `json:"trainer,omitempty"` // Relation, no db tag
	SeatsTaken int   `json:"seatsTaken"`        // Derived: approved + pending registrations
}

// IsFree reports whether the course requires no payment.
func (c *Course) IsFree() bool {
	return c.PriceKobo == 0
}

// HasCapacity reports whether another registration fits under max_seats.
// A max_seats of 0 means unlimited.
func (c *Course) HasCapacity() bool {
	return c.MaxSeats == 0 || c.SeatsTaken < c.MaxSeats
}
