package matching

import "github.com/voluntarios/foodbank/internal/roster"

// MatchResult is a scored volunteer candidate for an event.
// Sub-scores and passthrough fields are included for downstream display.
type MatchResult struct {
	VolunteerID           string  `json:"volunteer_id"`
	VolunteerName         string  `json:"volunteer_name"`
	MatchScore            float64 `json:"match_score"`
	Reason                string  `json:"reason"`
	SkillsMatch           float64 `json:"skills_match"`
	AvailabilityMatch     float64 `json:"availability_match"`
	ReliabilityScore      float64 `json:"reliability_score"`
	TotalHoursVolunteered int     `json:"total_hours_volunteered"`
}

// EventMatch is a scored event candidate for a volunteer.
// Distance is in kilometers; 0 when either side lacks coordinates.
type EventMatch struct {
	Event      roster.Event `json:"event"`
	MatchScore float64      `json:"match_score"`
	Reason     string       `json:"reason"`
	Distance   float64      `json:"distance"`
}
