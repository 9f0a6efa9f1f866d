// Package matching provides the volunteer/event matching engine: a score
// calculator combining skills overlap, reliability history, experience,
// availability, transport, and geographic proximity into one bounded score,
// and a cache-backed engine that turns matching queries into ranked results.
//
// Basic usage:
//
//	// Load calibration (typically at startup)
//	weights, err := matching.LoadCalibration("configs/matching.calibration.json")
//	if err != nil {
//		log.Warn("using default weights", "error", err)
//	}
//
//	engine := matching.NewEngine(store, cache, matching.EngineConfig{
//		Weights: weights,
//	})
//
//	// Rank candidate volunteers for an event
//	results, err := engine.MatchVolunteersForEvent(ctx, event)
//
//	// Rank upcoming events for a volunteer
//	events, err := engine.MatchEventsForVolunteer(ctx, volunteerID, roster.EventFilters{})
//
// Scoring strategies:
//
// Two deliberately distinct weighting layouts exist and must not be merged:
//
//   - ScoreForVolunteerRanking ranks many volunteers against one event.
//     It uses the simplified layout (skills, reliability, experience) plus
//     a flat transport bonus for distribution events, where own transport
//     is a hard differentiator for logistics.
//   - ScoreForEventRanking ranks many events against one volunteer. It uses
//     the full layout adding availability and distance terms, since the
//     volunteer is choosing among events spread across days and locations.
//
// All scoring functions are total over partial data: a missing skills list,
// availability list, or coordinate contributes zero to the score rather
// than producing an error.
//
// Calibration:
//
// Weights are tunable at deploy time via a JSON calibration file loaded at
// startup; partial files merge over the defaults. See
// configs/matching.calibration.json.
package matching
