package matching

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/voluntarios/foodbank/internal/roster"
)

func floatPtr(f float64) *float64 { return &f }

// tuesday is a fixed event start falling on a Tuesday.
var tuesday = time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

// TestSkillsMatch tests the asymmetric required-skills overlap.
func TestSkillsMatch(t *testing.T) {
	tests := []struct {
		name     string
		skills   []string
		required []string
		expected float64
	}{
		{
			name:     "extra skills do not inflate",
			skills:   []string{"cooking", "driving", "first-aid"},
			required: []string{"cooking"},
			expected: 1.0,
		},
		{
			name:     "no skills against requirements",
			skills:   nil,
			required: []string{"cooking", "driving"},
			expected: 0.0,
		},
		{
			name:     "no required skills",
			skills:   []string{"cooking"},
			required: nil,
			expected: 0.0,
		},
		{
			name:     "partial overlap",
			skills:   []string{"cooking"},
			required: []string{"cooking", "driving"},
			expected: 0.5,
		},
		{
			name:     "none of the required skills",
			skills:   []string{"first-aid"},
			required: []string{"cooking", "driving"},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &roster.Volunteer{Skills: tt.skills}
			e := &roster.Event{SkillsRequired: tt.required}
			if got := SkillsMatch(v, e); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

// TestAvailabilityMatch tests weekday-based availability.
func TestAvailabilityMatch(t *testing.T) {
	tests := []struct {
		name         string
		availability []string
		expected     float64
	}{
		{
			name:         "available on the event weekday",
			availability: []string{"Tuesday"},
			expected:     1,
		},
		{
			name:         "available on a different weekday",
			availability: []string{"Monday"},
			expected:     0,
		},
		{
			name:         "availability absent",
			availability: nil,
			expected:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &roster.Volunteer{Availability: tt.availability}
			e := &roster.Event{StartDate: tuesday}
			if got := AvailabilityMatch(v, e); got != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

// TestDistanceKm tests haversine distance and the zero fallbacks.
func TestDistanceKm(t *testing.T) {
	t.Run("New York to Los Angeles", func(t *testing.T) {
		v := &roster.Volunteer{Location: "40.7128,-74.0060"}
		e := &roster.Event{Latitude: floatPtr(34.0522), Longitude: floatPtr(-118.2437)}
		got := DistanceKm(v, e)
		if math.Abs(got-3940) > 10 {
			t.Errorf("expected ~3940 km (±10), got %f", got)
		}
	})

	t.Run("volunteer location absent", func(t *testing.T) {
		v := &roster.Volunteer{}
		e := &roster.Event{Latitude: floatPtr(34.0522), Longitude: floatPtr(-118.2437)}
		if got := DistanceKm(v, e); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("volunteer location malformed", func(t *testing.T) {
		v := &roster.Volunteer{Location: "somewhere downtown"}
		e := &roster.Event{Latitude: floatPtr(34.0522), Longitude: floatPtr(-118.2437)}
		if got := DistanceKm(v, e); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("event coordinates absent", func(t *testing.T) {
		v := &roster.Volunteer{Location: "40.7128,-74.0060"}
		e := &roster.Event{}
		if got := DistanceKm(v, e); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})
}

// TestScoresBounded verifies both strategies stay in [0, 1] across a grid
// of partial and complete inputs.
func TestScoresBounded(t *testing.T) {
	volunteers := []*roster.Volunteer{
		{},
		{Skills: []string{"cooking", "driving"}, ReliabilityScore: 1, TotalHoursVolunteered: 500, HasTransport: true, Availability: []string{"Tuesday"}, Location: "40.7128,-74.0060"},
		{Skills: []string{"cooking"}, ReliabilityScore: 0.5, TotalHoursVolunteered: 50},
		{ReliabilityScore: 1, HasTransport: true, Location: "not,a,coordinate"},
		{Availability: []string{"Monday", "Tuesday", "Wednesday"}, Location: "34.0522,-118.2437"},
	}
	events := []*roster.Event{
		{},
		{Type: roster.EventDistribution, StartDate: tuesday, SkillsRequired: []string{"cooking"}, Latitude: floatPtr(34.0522), Longitude: floatPtr(-118.2437)},
		{Type: roster.EventCollection, StartDate: tuesday, SkillsRequired: []string{"driving", "first-aid"}},
		{Type: roster.EventDistribution, Latitude: floatPtr(40.7128), Longitude: floatPtr(-74.0060)},
	}

	for vi, v := range volunteers {
		for ei, e := range events {
			full := ScoreForEventRanking(v, e, nil)
			if full < 0 || full > 1 {
				t.Errorf("ScoreForEventRanking out of bounds for pair (%d,%d): %f", vi, ei, full)
			}
			simplified := ScoreForVolunteerRanking(v, e, nil)
			if simplified < 0 || simplified > 1 {
				t.Errorf("ScoreForVolunteerRanking out of bounds for pair (%d,%d): %f", vi, ei, simplified)
			}
		}
	}
}

// TestTransportBonus verifies the exact +0.15 delta for transport on
// distribution events, and its absence elsewhere.
func TestTransportBonus(t *testing.T) {
	base := roster.Volunteer{ReliabilityScore: 0.5}
	withTransport := base
	withTransport.HasTransport = true

	t.Run("distribution event", func(t *testing.T) {
		e := &roster.Event{Type: roster.EventDistribution, StartDate: tuesday}
		diff := ScoreForVolunteerRanking(&withTransport, e, nil) - ScoreForVolunteerRanking(&base, e, nil)
		if math.Abs(diff-0.15) > 0.000001 {
			t.Errorf("expected exactly +0.15 transport bonus, got %f", diff)
		}
	})

	t.Run("collection event gets no bonus", func(t *testing.T) {
		e := &roster.Event{Type: roster.EventCollection, StartDate: tuesday}
		diff := ScoreForVolunteerRanking(&withTransport, e, nil) - ScoreForVolunteerRanking(&base, e, nil)
		if math.Abs(diff) > 0.000001 {
			t.Errorf("expected no bonus delta, got %f", diff)
		}
	})
}

// TestScoreForEventRankingDistanceTerm tests that the distance term only
// applies when both sides have coordinates.
func TestScoreForEventRankingDistanceTerm(t *testing.T) {
	near := &roster.Volunteer{Location: "40.4168,-3.7038"}
	noLocation := &roster.Volunteer{}
	e := &roster.Event{StartDate: tuesday, Latitude: floatPtr(40.4168), Longitude: floatPtr(-3.7038)}

	// Co-located pair earns the full 0.05 proximity term.
	diff := ScoreForEventRanking(near, e, nil) - ScoreForEventRanking(noLocation, e, nil)
	if math.Abs(diff-0.05) > 0.000001 {
		t.Errorf("expected 0.05 proximity delta for co-located pair, got %f", diff)
	}

	// Beyond the 100 km cap the term contributes zero.
	far := &roster.Volunteer{Location: "48.8566,2.3522"}
	diff = ScoreForEventRanking(far, e, nil) - ScoreForEventRanking(noLocation, e, nil)
	if math.Abs(diff) > 0.000001 {
		t.Errorf("expected zero proximity delta beyond the cap, got %f", diff)
	}
}

// TestScoreForEventRankingExperienceCap tests hour saturation at 100.
func TestScoreForEventRankingExperienceCap(t *testing.T) {
	hundred := &roster.Volunteer{TotalHoursVolunteered: 100}
	thousand := &roster.Volunteer{TotalHoursVolunteered: 1000}
	e := &roster.Event{StartDate: tuesday}

	s1 := ScoreForEventRanking(hundred, e, nil)
	s2 := ScoreForEventRanking(thousand, e, nil)
	if math.Abs(s1-s2) > 0.000001 {
		t.Errorf("expected experience term to saturate at 100 hours: %f vs %f", s1, s2)
	}
	if math.Abs(s1-0.15) > 0.000001 {
		t.Errorf("expected saturated experience term 0.15, got %f", s1)
	}
}

// TestScoreClampWithCalibratedWeights tests that inflated calibration
// weights cannot push a score above 1.
func TestScoreClampWithCalibratedWeights(t *testing.T) {
	heavy := &Weights{Skills: 0.9, Reliability: 0.9, Experience: 0.9, Availability: 0.9, Distance: 0.9, TransportBonus: 0.9}
	v := &roster.Volunteer{
		Skills:                []string{"cooking"},
		Availability:          []string{"Tuesday"},
		HasTransport:          true,
		ReliabilityScore:      1,
		TotalHoursVolunteered: 100,
		Location:              "40.4168,-3.7038",
	}
	e := &roster.Event{
		Type:           roster.EventDistribution,
		StartDate:      tuesday,
		SkillsRequired: []string{"cooking"},
		Latitude:       floatPtr(40.4168),
		Longitude:      floatPtr(-3.7038),
	}

	if got := ScoreForEventRanking(v, e, heavy); got != 1 {
		t.Errorf("expected clamp to 1, got %f", got)
	}
	if got := ScoreForVolunteerRanking(v, e, heavy); got != 1 {
		t.Errorf("expected clamp to 1, got %f", got)
	}
}

// TestMatchReason tests clause content and the fixed clause ordering.
func TestMatchReason(t *testing.T) {
	t.Run("clause ordering", func(t *testing.T) {
		v := &roster.Volunteer{
			Skills:                []string{"cooking"},
			Availability:          []string{"Tuesday"},
			HasTransport:          true,
			TotalHoursVolunteered: 42,
			Location:              "40.4168,-3.7038",
		}
		e := &roster.Event{
			Type:           roster.EventDistribution,
			StartDate:      tuesday,
			SkillsRequired: []string{"cooking"},
			Latitude:       floatPtr(40.4168),
			Longitude:      floatPtr(-3.7038),
		}

		reason := MatchReason(v, e)

		clauses := []string{
			"has required skills: cooking",
			"available on the event day",
			"has own transport for a distribution event",
			"prior experience (42 hours)",
			"located near the event",
		}
		prev := -1
		for _, clause := range clauses {
			idx := strings.Index(reason, clause)
			if idx < 0 {
				t.Fatalf("reason %q missing clause %q", reason, clause)
			}
			if idx < prev {
				t.Errorf("reason %q has clause %q out of order", reason, clause)
			}
			prev = idx
		}
	})

	t.Run("skills clause precedes availability clause", func(t *testing.T) {
		v := &roster.Volunteer{Skills: []string{"cooking"}, Availability: []string{"Tuesday"}}
		e := &roster.Event{StartDate: tuesday, SkillsRequired: []string{"cooking"}}

		reason := MatchReason(v, e)
		skillsIdx := strings.Index(reason, "has required skills: cooking")
		availIdx := strings.Index(reason, "available on the event day")
		if skillsIdx < 0 || availIdx < 0 {
			t.Fatalf("reason %q missing expected clauses", reason)
		}
		if skillsIdx > availIdx {
			t.Errorf("skills clause must precede availability clause: %q", reason)
		}
	})

	t.Run("distant pair omits proximity clause", func(t *testing.T) {
		v := &roster.Volunteer{Location: "40.7128,-74.0060"}
		e := &roster.Event{StartDate: tuesday, Latitude: floatPtr(34.0522), Longitude: floatPtr(-118.2437)}

		if reason := MatchReason(v, e); strings.Contains(reason, "located near the event") {
			t.Errorf("unexpected proximity clause for a 3900 km pair: %q", reason)
		}
	})

	t.Run("fallback when no clause applies", func(t *testing.T) {
		v := &roster.Volunteer{}
		e := &roster.Event{StartDate: tuesday}

		if got := MatchReason(v, e); got != "potentially suitable volunteer" {
			t.Errorf("expected fallback phrase, got %q", got)
		}
	})
}
