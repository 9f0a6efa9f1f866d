package roster

import (
	"math"
	"testing"
	"time"
)

// TestVolunteerCoordinates tests location string parsing.
func TestVolunteerCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantNil  bool
		wantLat  float64
		wantLng  float64
	}{
		{
			name:     "valid location",
			location: "40.7128,-74.0060",
			wantLat:  40.7128,
			wantLng:  -74.0060,
		},
		{
			name:     "empty location",
			location: "",
			wantNil:  true,
		},
		{
			name:     "single component",
			location: "40.7128",
			wantNil:  true,
		},
		{
			name:     "non-numeric components",
			location: "downtown,warehouse",
			wantNil:  true,
		},
		{
			name:     "too many components",
			location: "40.7,-74.0,0",
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Volunteer{Location: tt.location}
			got := v.Coordinates()
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil coordinates, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected coordinates, got nil")
			}
			if math.Abs(got.Lat-tt.wantLat) > 0.000001 || math.Abs(got.Lng-tt.wantLng) > 0.000001 {
				t.Errorf("expected (%f, %f), got (%f, %f)", tt.wantLat, tt.wantLng, got.Lat, got.Lng)
			}
		})
	}
}

// TestVolunteerAvailableOn tests weekday membership checks.
func TestVolunteerAvailableOn(t *testing.T) {
	v := Volunteer{Availability: []string{"Monday", "Wednesday"}}

	if !v.AvailableOn("Monday") {
		t.Error("expected volunteer to be available on Monday")
	}
	if v.AvailableOn("Tuesday") {
		t.Error("expected volunteer to not be available on Tuesday")
	}

	empty := Volunteer{}
	if empty.AvailableOn("Monday") {
		t.Error("expected volunteer with no availability to not be available")
	}
}

// TestEventWeekday tests weekday derivation from the start date.
func TestEventWeekday(t *testing.T) {
	// 2025-06-03 is a Tuesday.
	e := Event{StartDate: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)}
	if got := e.Weekday(); got != "Tuesday" {
		t.Errorf("expected Tuesday, got %s", got)
	}
}

// TestEventCoordinates tests that both latitude and longitude are required.
func TestEventCoordinates(t *testing.T) {
	lat := 40.4168
	lng := -3.7038

	full := Event{Latitude: &lat, Longitude: &lng}
	if got := full.Coordinates(); got == nil || got.Lat != lat || got.Lng != lng {
		t.Errorf("expected (%f, %f), got %+v", lat, lng, got)
	}

	missingLng := Event{Latitude: &lat}
	if got := missingLng.Coordinates(); got != nil {
		t.Errorf("expected nil for missing longitude, got %+v", got)
	}

	neither := Event{}
	if got := neither.Coordinates(); got != nil {
		t.Errorf("expected nil for missing coordinates, got %+v", got)
	}
}

// TestEventIsFullyStaffed tests the head-count comparison.
func TestEventIsFullyStaffed(t *testing.T) {
	e := Event{RequiredVolunteers: 3}

	if e.IsFullyStaffed(2) {
		t.Error("expected event with 2/3 assigned to not be fully staffed")
	}
	if !e.IsFullyStaffed(3) {
		t.Error("expected event with 3/3 assigned to be fully staffed")
	}
	if !e.IsFullyStaffed(4) {
		t.Error("expected event with 4/3 assigned to be fully staffed")
	}
}
