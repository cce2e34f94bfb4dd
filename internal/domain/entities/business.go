package entities

import (
	"strings"
	"time"
)

// Weekdays lists the schedule keys in display order. Availability schedules
// are keyed by exactly these seven names.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Business represents a single directory listing.
type Business struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Brief        string    `json:"brief" db:"brief"`
	Description  string    `json:"description" db:"description"`
	ProfilePhoto string    `json:"profilePhoto,omitempty" db:"profile_photo"`
	Categories   []string  `json:"categories" db:"-"`
	Addresses    []Address `json:"addresses" db:"-"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	UserID       string    `json:"user_id" db:"user_id"`
	CreatedBy    string    `json:"createdBy" db:"created_by"`
	UpdatedBy    string    `json:"updatedBy" db:"updated_by"`
}

// Address is one location's full contact block within a business.
type Address struct {
	Lines        []string      `json:"lines"`
	City         string        `json:"city"`
	Link         string        `json:"link,omitempty"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers"`
	Emails       []string      `json:"emails"`
	Availability *Availability `json:"availabilities,omitempty"`
}

// PhoneNumber holds a raw digit string plus dialing metadata.
type PhoneNumber struct {
	Number      string `json:"number"`
	CountryCode string `json:"countryCode"`
	HasWhatsapp bool   `json:"hasWhatsapp"`
}

// Availability describes opening hours for one address.
type Availability struct {
	Enabled  bool                   `json:"enabled"`
	Schedule map[string]DaySchedule `json:"schedule,omitempty"`
}

// DaySchedule is the opening state for a single weekday.
type DaySchedule struct {
	IsOpen    bool       `json:"isOpen"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// TimeSlot is an open/close pair in "HH:MM" 24-hour form.
type TimeSlot struct {
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// Cities returns the distinct cities across all addresses, preserving
// first-seen order.
func (b *Business) Cities() []string {
	seen := map[string]struct{}{}
	var cities []string
	for _, addr := range b.Addresses {
		if _, ok := seen[addr.City]; ok {
			continue
		}
		seen[addr.City] = struct{}{}
		cities = append(cities, addr.City)
	}
	return cities
}

// HasCategory reports whether the business carries the given category
// verbatim.
func (b *Business) HasCategory(category string) bool {
	for _, c := range b.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// MatchesText reports whether the trimmed lowercase query is a substring of
// the name, the brief, any address city, or any category. An empty query
// matches everything.
func (b *Business) MatchesText(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(strings.TrimSpace(b.Name)), q) {
		return true
	}
	if strings.Contains(strings.ToLower(strings.TrimSpace(b.Brief)), q) {
		return true
	}
	for _, addr := range b.Addresses {
		if strings.Contains(strings.ToLower(strings.TrimSpace(addr.City)), q) {
			return true
		}
	}
	for _, c := range b.Categories {
		if strings.Contains(strings.ToLower(strings.TrimSpace(c)), q) {
			return true
		}
	}
	return false
}
