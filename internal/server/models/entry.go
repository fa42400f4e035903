// Package models defines the diary data persisted by the server.
package models

import "time"

// Entry is the free-text diary entry of one user for one calendar date.
// (UserID, Date) is unique.
type Entry struct {
	UserID    string    `json:"-"`
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day is everything shown for one date: the entry text and its collage.
type Day struct {
	Date    string       `json:"date"`
	Content string       `json:"content"`
	Images  []*Placement `json:"images"`
}
