package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/voluntarios/foodbank/internal/cache"
	"github.com/voluntarios/foodbank/internal/roster"
)

// cacheKeyPrefix namespaces all match result cache entries.
const cacheKeyPrefix = "volunteer_match_"

// Engine defaults.
const (
	// DefaultCacheTTL is how long cached match results stay valid.
	DefaultCacheTTL = 60 * time.Minute

	// DefaultScoreThreshold is the exclusive minimum score for a volunteer
	// to appear in event match results.
	DefaultScoreThreshold = 0.6

	// DefaultMaxResults caps the number of volunteers returned per event.
	DefaultMaxResults = 10
)

// Engine orchestrates candidate retrieval, scoring, ranking, and result
// caching for matching queries. Each request is computed synchronously;
// concurrent requests for the same key may both recompute and overwrite
// the same cache entry, which is an accepted last-writer-wins race.
type Engine struct {
	store   roster.Store
	cache   cache.Cache
	weights *Weights
	metrics *Metrics
	logger  *slog.Logger

	ttl            time.Duration
	scoreThreshold float64
	maxResults     int
}

// EngineConfig configures an Engine. Zero values fall back to defaults.
type EngineConfig struct {
	Weights        *Weights
	Metrics        *Metrics
	Logger         *slog.Logger
	CacheTTL       time.Duration
	ScoreThreshold float64
	MaxResults     int
}

// NewEngine creates a matching engine over the given store and cache.
func NewEngine(store roster.Store, c cache.Cache, config EngineConfig) *Engine {
	if config.Weights == nil {
		config.Weights = DefaultWeights()
	}
	if config.Metrics == nil {
		config.Metrics = NewMetrics()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.ScoreThreshold == 0 {
		config.ScoreThreshold = DefaultScoreThreshold
	}
	if config.MaxResults <= 0 {
		config.MaxResults = DefaultMaxResults
	}

	return &Engine{
		store:          store,
		cache:          c,
		weights:        config.Weights,
		metrics:        config.Metrics,
		logger:         config.Logger,
		ttl:            config.CacheTTL,
		scoreThreshold: config.ScoreThreshold,
		maxResults:     config.MaxResults,
	}
}

// MatchVolunteersForEvent returns the ranked volunteer candidates for an
// event, capped and filtered by the score threshold. Results are served
// from cache when a fresh entry exists; otherwise candidates are fetched,
// scored with the simplified strategy, and the result is cached.
func (e *Engine) MatchVolunteersForEvent(ctx context.Context, event *roster.Event) ([]MatchResult, error) {
	key := cacheKeyPrefix + "event_" + event.ID

	var cached []MatchResult
	if e.readCache(ctx, key, QueryEvent, &cached) {
		return cached, nil
	}

	start := time.Now()

	volunteers, err := e.store.FindAvailableVolunteers(ctx, event.Weekday(), event.ID)
	if err != nil {
		e.metrics.IncStoreError()
		e.logger.ErrorContext(ctx, "failed to retrieve available volunteers",
			slog.String("event_id", event.ID),
			slog.String("weekday", event.Weekday()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("matching volunteers for event %s: %w", event.ID, err)
	}

	results := make([]MatchResult, 0, len(volunteers))
	for i := range volunteers {
		v := &volunteers[i]
		score := ScoreForVolunteerRanking(v, event, e.weights)
		if score <= e.scoreThreshold {
			continue
		}
		results = append(results, MatchResult{
			VolunteerID:           v.ID,
			VolunteerName:         v.Name,
			MatchScore:            score,
			Reason:                MatchReason(v, event),
			SkillsMatch:           SkillsMatch(v, event),
			AvailabilityMatch:     AvailabilityMatch(v, event),
			ReliabilityScore:      v.ReliabilityScore,
			TotalHoursVolunteered: v.TotalHoursVolunteered,
		})
	}

	// Stable sort: retrieval order is the tie-break for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}

	e.metrics.ObserveComputeDuration(time.Since(start).Seconds())
	e.writeCache(ctx, key, results)
	return results, nil
}

// MatchEventsForVolunteer returns all planned future events ranked for a
// volunteer with the full scoring strategy, including per-event distance.
// No threshold or cap applies on this path. A missing volunteer is a hard
// error.
func (e *Engine) MatchEventsForVolunteer(ctx context.Context, volunteerID string, filters roster.EventFilters) ([]EventMatch, error) {
	key := cacheKeyPrefix + "volunteer_" + volunteerID

	var cached []EventMatch
	if e.readCache(ctx, key, QueryVolunteer, &cached) {
		return cached, nil
	}

	start := time.Now()

	volunteer, err := e.store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to look up volunteer for matching",
			slog.String("volunteer_id", volunteerID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("matching events for volunteer %s: %w", volunteerID, err)
	}

	events, err := e.store.FindPlannedFutureEvents(ctx, filters)
	if err != nil {
		e.metrics.IncStoreError()
		e.logger.ErrorContext(ctx, "failed to retrieve planned events",
			slog.String("volunteer_id", volunteerID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("matching events for volunteer %s: %w", volunteerID, err)
	}

	matches := make([]EventMatch, 0, len(events))
	for i := range events {
		ev := &events[i]
		matches = append(matches, EventMatch{
			Event:      *ev,
			MatchScore: ScoreForEventRanking(volunteer, ev, e.weights),
			Reason:     MatchReason(volunteer, ev),
			Distance:   DistanceKm(volunteer, ev),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	e.metrics.ObserveComputeDuration(time.Since(start).Seconds())
	e.writeCache(ctx, key, matches)
	return matches, nil
}

// readCache attempts to decode a fresh cache entry into dest. A cache read
// failure or an undecodable entry is treated as a miss; recomputation is
// always a correct answer, so the cache being unreachable must not fail
// the request.
func (e *Engine) readCache(ctx context.Context, key, query string, dest any) bool {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.WarnContext(ctx, "match cache read failed, recomputing",
			slog.String("key", key),
			slog.String("error", err.Error()))
		e.metrics.IncCacheMiss(query)
		return false
	}
	if !ok {
		e.metrics.IncCacheMiss(query)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		e.logger.WarnContext(ctx, "discarding undecodable match cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		e.metrics.IncCacheMiss(query)
		return false
	}
	e.metrics.IncCacheHit(query)
	return true
}

// writeCache stores the computed result under key with the engine TTL.
// Write failures are logged and ignored; the response is already computed.
func (e *Engine) writeCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to encode match results for cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}
	if err := e.cache.Put(ctx, key, data, e.ttl); err != nil {
		e.logger.WarnContext(ctx, "match cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
