package models

import "time"

type Participant struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
