package roster

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/voluntarios/foodbank/internal/geo"
)

var (
	// ErrVolunteerNotFound is returned when a volunteer lookup finds no row.
	ErrVolunteerNotFound = errors.New("volunteer not found")

	// ErrEventNotFound is returned when an event lookup finds no row.
	ErrEventNotFound = errors.New("event not found")
)

// EventFilters narrows the set of planned future events returned by a store.
// RadiusKm is only applied when Location is also set and a center point is
// provided; a radius without a location filter is ignored.
type EventFilters struct {
	Location  string
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
}

// center returns the radius filter's center point, or nil when the radius
// filter should not apply.
func (f EventFilters) center() *geo.Point {
	if f.Location == "" || f.RadiusKm == nil || f.Latitude == nil || f.Longitude == nil {
		return nil
	}
	return &geo.Point{Lat: *f.Latitude, Lng: *f.Longitude}
}

// Store defines the read queries the matching engine needs.
//
// Result ordering for the Find queries carries no guarantee beyond being
// stable for a given store state; the engine's stable sort uses it as the
// tie-break, so nondeterministic ordering in an implementation surfaces as
// nondeterministic ties in match rankings.
type Store interface {
	// FindAvailableVolunteers returns volunteers whose availability list
	// contains the given weekday and who are not assigned to the given
	// event with status "assigned".
	FindAvailableVolunteers(ctx context.Context, weekday, excludeEventID string) ([]Volunteer, error)

	// FindPlannedFutureEvents returns events with status "planned" and a
	// start date in the future, narrowed by the optional filters.
	FindPlannedFutureEvents(ctx context.Context, f EventFilters) ([]Event, error)

	// GetVolunteer returns the volunteer with the given ID, or
	// ErrVolunteerNotFound.
	GetVolunteer(ctx context.Context, id string) (*Volunteer, error)

	// GetEvent returns the event with the given ID, or ErrEventNotFound.
	GetEvent(ctx context.Context, id string) (*Event, error)
}

// MemoryStore is an in-memory implementation of Store.
// Used for testing and development. Records are returned in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	volunteers  []Volunteer
	events      []Event
	assignments []Assignment
	now         func() time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetNowFunc overrides the store's clock for tests.
// Passing nil restores the real clock.
func (s *MemoryStore) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// AddVolunteer stores a volunteer.
func (s *MemoryStore) AddVolunteer(v Volunteer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volunteers = append(s.volunteers, v)
}

// AddEvent stores an event.
func (s *MemoryStore) AddEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// AddAssignment stores an assignment.
func (s *MemoryStore) AddAssignment(a Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, a)
}

// FindAvailableVolunteers returns volunteers available on the weekday and
// not already assigned to the event with status "assigned".
func (s *MemoryStore) FindAvailableVolunteers(ctx context.Context, weekday, excludeEventID string) ([]Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assigned := make(map[string]bool)
	for _, a := range s.assignments {
		if a.EventID == excludeEventID && a.Status == AssignmentAssigned {
			assigned[a.VolunteerID] = true
		}
	}

	var result []Volunteer
	for _, v := range s.volunteers {
		if assigned[v.ID] {
			continue
		}
		if !v.AvailableOn(weekday) {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}

// FindPlannedFutureEvents returns planned events starting in the future,
// narrowed by the optional location substring and radius filters.
func (s *MemoryStore) FindPlannedFutureEvents(ctx context.Context, f EventFilters) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	center := f.center()
	locFilter := strings.ToLower(f.Location)

	var result []Event
	for _, e := range s.events {
		if e.Status != EventPlanned || !e.StartDate.After(now) {
			continue
		}
		if locFilter != "" && !strings.Contains(strings.ToLower(e.Location), locFilter) {
			continue
		}
		if center != nil {
			coords := e.Coordinates()
			if coords == nil || geo.HaversineKm(*center, *coords) > *f.RadiusKm {
				continue
			}
		}
		result = append(result, e)
	}
	return result, nil
}

// GetVolunteer returns the volunteer with the given ID.
func (s *MemoryStore) GetVolunteer(ctx context.Context, id string) (*Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.volunteers {
		if s.volunteers[i].ID == id {
			v := s.volunteers[i]
			return &v, nil
		}
	}
	return nil, ErrVolunteerNotFound
}

// GetEvent returns the event with the given ID.
func (s *MemoryStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, ErrEventNotFound
}
