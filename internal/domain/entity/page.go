// Package entity defines the core domain entities and validation logic for the application.
// It contains the Page entity along with its validation rules and domain-specific errors.
package entity

import "time"

// Page represents a named, trackable page and its hit counter.
// ID is assigned once by the store and never changes; Hits only grows.
type Page struct {
	ID        int64
	Name      string
	Hits      int64
	CreatedAt time.Time
}

// Clone returns a copy of the page that can be handed out without sharing state.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
