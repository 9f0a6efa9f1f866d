package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/voluntarios/foodbank/internal/geo"
	"github.com/voluntarios/foodbank/internal/roster"
)

const (
	// experienceCapHours is the hour count at which the experience term saturates.
	experienceCapHours = 100.0

	// distanceCapKm is the distance at which the proximity term bottoms out.
	distanceCapKm = 100.0

	// nearbyThresholdKm is the distance under which a match reason mentions proximity.
	nearbyThresholdKm = 10.0
)

// SkillsMatch returns the fraction of the event's required skills the
// volunteer possesses, in [0, 1]. Returns 0 when either side has no skills.
// Asymmetric: extra skills beyond those required do not raise the score.
func SkillsMatch(v *roster.Volunteer, e *roster.Event) float64 {
	if len(e.SkillsRequired) == 0 || len(v.Skills) == 0 {
		return 0
	}

	possessed := make(map[string]bool, len(v.Skills))
	for _, skill := range v.Skills {
		possessed[skill] = true
	}

	common := 0
	for _, required := range e.SkillsRequired {
		if possessed[required] {
			common++
		}
	}
	return float64(common) / float64(len(e.SkillsRequired))
}

// matchedSkills returns the required skills the volunteer possesses, in the
// event's required order.
func matchedSkills(v *roster.Volunteer, e *roster.Event) []string {
	if len(e.SkillsRequired) == 0 || len(v.Skills) == 0 {
		return nil
	}

	possessed := make(map[string]bool, len(v.Skills))
	for _, skill := range v.Skills {
		possessed[skill] = true
	}

	var common []string
	for _, required := range e.SkillsRequired {
		if possessed[required] {
			common = append(common, required)
		}
	}
	return common
}

// AvailabilityMatch returns 1 when the event's weekday appears in the
// volunteer's availability list, else 0. Returns 0 when the availability
// list is absent or the event has no start date.
func AvailabilityMatch(v *roster.Volunteer, e *roster.Event) float64 {
	if len(v.Availability) == 0 || e.StartDate.IsZero() {
		return 0
	}
	if v.AvailableOn(e.Weekday()) {
		return 1
	}
	return 0
}

// DistanceKm returns the great-circle distance between the volunteer and
// the event in kilometers. Returns 0 when either side lacks usable
// coordinates; absence of location data is neither penalized nor rewarded.
func DistanceKm(v *roster.Volunteer, e *roster.Event) float64 {
	vp := v.Coordinates()
	ep := e.Coordinates()
	if vp == nil || ep == nil {
		return 0
	}
	return geo.HaversineKm(*vp, *ep)
}

// ScoreForEventRanking computes the full five-term match score used when
// ranking many events for one volunteer. The distance term is only applied
// when both sides have coordinates. The result is clamped to [0, 1].
// A nil weights uses the defaults.
func ScoreForEventRanking(v *roster.Volunteer, e *roster.Event, w *Weights) float64 {
	if w == nil {
		w = DefaultWeights()
	}

	score := w.Skills * SkillsMatch(v, e)
	score += w.Reliability * v.ReliabilityScore
	score += w.Experience * math.Min(1, float64(v.TotalHoursVolunteered)/experienceCapHours)
	score += w.Availability * AvailabilityMatch(v, e)

	if v.Coordinates() != nil && e.Coordinates() != nil {
		score += w.Distance * (1 - math.Min(1, DistanceKm(v, e)/distanceCapKm))
	}

	return math.Min(1, score)
}

// ScoreForVolunteerRanking computes the simplified four-term match score
// used when ranking many volunteers for one event. Availability and
// distance are not part of this layout; instead, volunteers with their own
// transport get a flat bonus for distribution events. The result is
// clamped to [0, 1]. A nil weights uses the defaults.
func ScoreForVolunteerRanking(v *roster.Volunteer, e *roster.Event, w *Weights) float64 {
	if w == nil {
		w = DefaultWeights()
	}

	score := w.Skills * SkillsMatch(v, e)
	score += w.Reliability * v.ReliabilityScore
	score += w.Experience * math.Min(1, float64(v.TotalHoursVolunteered)/experienceCapHours)

	if e.Type == roster.EventDistribution && v.HasTransport {
		score += w.TransportBonus
	}

	return math.Min(1, score)
}

// MatchReason builds a comma-joined explanation for a volunteer/event pair.
// Clauses appear in a fixed order: matched skills, availability on the
// event day, transport for distribution events, prior experience, and
// proximity. Returns a generic fallback when no clause applies.
func MatchReason(v *roster.Volunteer, e *roster.Event) string {
	var reasons []string

	if common := matchedSkills(v, e); len(common) > 0 {
		reasons = append(reasons, "has required skills: "+strings.Join(common, ", "))
	}

	if AvailabilityMatch(v, e) == 1 {
		reasons = append(reasons, "available on the event day")
	}

	if e.Type == roster.EventDistribution && v.HasTransport {
		reasons = append(reasons, "has own transport for a distribution event")
	}

	if v.TotalHoursVolunteered > 0 {
		reasons = append(reasons, fmt.Sprintf("prior experience (%d hours)", v.TotalHoursVolunteered))
	}

	if v.Coordinates() != nil && e.Coordinates() != nil && DistanceKm(v, e) < nearbyThresholdKm {
		reasons = append(reasons, "located near the event")
	}

	if len(reasons) == 0 {
		return "potentially suitable volunteer"
	}
	return strings.Join(reasons, ", ")
}
