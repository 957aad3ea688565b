package model

import "time"

// Note is a user-owned note. Color is the ARGB value the client picked
// for the note card.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     int64     `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
