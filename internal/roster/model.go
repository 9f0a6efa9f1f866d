// Package roster provides models and repositories for volunteers, events,
// and assignments in the food bank operation.
package roster

import (
	"time"

	"github.com/voluntarios/foodbank/internal/geo"
)

// EventType classifies an event by the kind of work involved.
type EventType string

// Valid event types.
const (
	EventCollection   EventType = "collection"
	EventDistribution EventType = "distribution"
	EventAwareness    EventType = "awareness"
	EventFundraising  EventType = "fundraising"
)

// EventStatus represents the lifecycle state of an event.
type EventStatus string

// Valid event statuses.
const (
	EventPlanned   EventStatus = "planned"
	EventConfirmed EventStatus = "confirmed"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// AssignmentStatus represents the lifecycle state of a volunteer assignment.
type AssignmentStatus string

// Valid assignment statuses.
const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Volunteer represents a registered volunteer.
// Location is a comma-joined "lat,lng" string and may be empty.
type Volunteer struct {
	ID                    string   `json:"id"`
	UserID                string   `json:"user_id"`
	Name                  string   `json:"name"`
	Skills                []string `json:"skills,omitempty"`
	Availability          []string `json:"availability,omitempty"`
	HasTransport          bool     `json:"has_transport"`
	ReliabilityScore      float64  `json:"reliability_score"`
	TotalHoursVolunteered int      `json:"total_hours_volunteered"`
	Location              string   `json:"location,omitempty"`
}

// Coordinates parses the volunteer's location string into a coordinate pair.
// Returns nil when the location is absent or does not split into exactly
// two decimal components.
func (v *Volunteer) Coordinates() *geo.Point {
	p, ok := geo.ParseLatLng(v.Location)
	if !ok {
		return nil
	}
	return p
}

// AvailableOn reports whether the volunteer's availability list contains
// the given weekday name (e.g. "Tuesday").
func (v *Volunteer) AvailableOn(weekday string) bool {
	for _, day := range v.Availability {
		if day == weekday {
			return true
		}
	}
	return false
}

// Event represents a food bank event needing volunteers.
type Event struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description,omitempty"`
	Type               EventType   `json:"event_type"`
	StartDate          time.Time   `json:"start_date"`
	EndDate            time.Time   `json:"end_date"`
	Location           string      `json:"location,omitempty"`
	Latitude           *float64    `json:"latitude,omitempty"`
	Longitude          *float64    `json:"longitude,omitempty"`
	RequiredVolunteers int         `json:"required_volunteers"`
	SkillsRequired     []string    `json:"skills_required,omitempty"`
	Status             EventStatus `json:"status"`
	CreatedBy          string      `json:"created_by,omitempty"`
}

// Weekday returns the weekday name derived from the event's start date.
func (e *Event) Weekday() string {
	return e.StartDate.Weekday().String()
}

// Coordinates returns the event's coordinate pair, or nil when either
// latitude or longitude is absent.
func (e *Event) Coordinates() *geo.Point {
	if e.Latitude == nil || e.Longitude == nil {
		return nil
	}
	return &geo.Point{Lat: *e.Latitude, Lng: *e.Longitude}
}

// IsFullyStaffed reports whether the given count of assigned volunteers
// meets the event's required head-count.
func (e *Event) IsFullyStaffed(assigned int) bool {
	return assigned >= e.RequiredVolunteers
}

// Assignment links a volunteer to an event with a role and status.
type Assignment struct {
	VolunteerID string           `json:"volunteer_id"`
	EventID     string           `json:"event_id"`
	Role        string           `json:"role,omitempty"`
	Status      AssignmentStatus `json:"status"`
	AssignedBy  string           `json:"assigned_by,omitempty"`
}
