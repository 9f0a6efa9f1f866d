package matching

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights holds the weight configuration for both scoring strategies.
// Skills, Reliability, and Experience are shared; Availability and Distance
// apply only to the full event-ranking layout; TransportBonus applies only
// to the simplified volunteer-ranking layout.
type Weights struct {
	Skills         float64 `json:"skills"`          // Weight for required-skills overlap (default: 0.5)
	Reliability    float64 `json:"reliability"`     // Weight for reliability history (default: 0.2)
	Experience     float64 `json:"experience"`      // Weight for capped volunteered hours (default: 0.15)
	Availability   float64 `json:"availability"`    // Weight for event-day availability (default: 0.1)
	Distance       float64 `json:"distance"`        // Weight for geographic proximity (default: 0.05)
	TransportBonus float64 `json:"transport_bonus"` // Flat bonus for transport on distribution events (default: 0.15)
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configuration
}

// DefaultWeights returns the default matching weight configuration.
//
// Full layout (events ranked for a volunteer):
// score = 0.5*skills + 0.2*reliability + 0.15*experience + 0.1*availability + 0.05*proximity
//
// Simplified layout (volunteers ranked for an event):
// score = 0.5*skills + 0.2*reliability + 0.15*experience [+ 0.15 transport bonus]
//
// Both results are clamped to [0, 1].
func DefaultWeights() *Weights {
	return &Weights{
		Skills:         0.5,
		Reliability:    0.2,
		Experience:     0.15,
		Availability:   0.1,
		Distance:       0.05,
		TransportBonus: 0.15,
	}
}

// LoadCalibration loads matching weights from a JSON calibration file.
// Partial configurations are merged with defaults; on any read or parse
// error the defaults are returned along with the error so callers can keep
// running with a logged warning.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights onto base weights.
// Only non-zero override values are applied, which allows partial
// calibration files.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.Skills != 0 {
		result.Skills = override.Skills
	}
	if override.Reliability != 0 {
		result.Reliability = override.Reliability
	}
	if override.Experience != 0 {
		result.Experience = override.Experience
	}
	if override.Availability != 0 {
		result.Availability = override.Availability
	}
	if override.Distance != 0 {
		result.Distance = override.Distance
	}
	if override.TransportBonus != 0 {
		result.TransportBonus = override.TransportBonus
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	if loaded.Skills != defaults.Skills {
		overrides = append(overrides, fmt.Sprintf("skills: %.2f -> %.2f", defaults.Skills, loaded.Skills))
	}
	if loaded.Reliability != defaults.Reliability {
		overrides = append(overrides, fmt.Sprintf("reliability: %.2f -> %.2f", defaults.Reliability, loaded.Reliability))
	}
	if loaded.Experience != defaults.Experience {
		overrides = append(overrides, fmt.Sprintf("experience: %.2f -> %.2f", defaults.Experience, loaded.Experience))
	}
	if loaded.Availability != defaults.Availability {
		overrides = append(overrides, fmt.Sprintf("availability: %.2f -> %.2f", defaults.Availability, loaded.Availability))
	}
	if loaded.Distance != defaults.Distance {
		overrides = append(overrides, fmt.Sprintf("distance: %.2f -> %.2f", defaults.Distance, loaded.Distance))
	}
	if loaded.TransportBonus != defaults.TransportBonus {
		overrides = append(overrides, fmt.Sprintf("transport_bonus: %.2f -> %.2f", defaults.TransportBonus, loaded.TransportBonus))
	}

	if len(overrides) > 0 {
		slog.Info("loaded matching calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded matching calibration (using all defaults)")
	}
}
