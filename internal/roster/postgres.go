package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/voluntarios/foodbank/internal/geo"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

const volunteerColumns = `id, user_id, name, skills, availability, has_transport, reliability_score, total_hours_volunteered, location`

const eventColumns = `id, name, description, event_type, start_date, end_date, location, latitude, longitude, required_volunteers, skills_required, status, created_by`

// FindAvailableVolunteers returns volunteers available on the given weekday
// who are not assigned to the given event with status "assigned".
func (s *PostgresStore) FindAvailableVolunteers(ctx context.Context, weekday, excludeEventID string) ([]Volunteer, error) {
	query := `
		SELECT ` + volunteerColumns + `
		FROM volunteers
		WHERE availability @> ARRAY[$1]::text[]
		  AND id NOT IN (
			SELECT volunteer_id FROM assignments
			WHERE event_id = $2 AND status = 'assigned'
		  )
	`

	rows, err := s.db.QueryContext(ctx, query, weekday, excludeEventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to query available volunteers",
			slog.String("weekday", weekday),
			slog.String("event_id", excludeEventID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("querying available volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning volunteer row: %w", err)
		}
		volunteers = append(volunteers, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating volunteer rows: %w", err)
	}
	return volunteers, nil
}

// FindPlannedFutureEvents returns planned events starting in the future.
// The location substring filter is pushed into SQL; the radius filter is
// applied in Go so the query does not depend on PostGIS being installed.
func (s *PostgresStore) FindPlannedFutureEvents(ctx context.Context, f EventFilters) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = 'planned' AND start_date > now()
	`
	args := []any{}
	if f.Location != "" {
		query += ` AND location ILIKE $1`
		args = append(args, "%"+f.Location+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to query planned events",
			slog.String("location_filter", f.Location),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("querying planned future events: %w", err)
	}
	defer rows.Close()

	center := f.center()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		if center != nil {
			coords := e.Coordinates()
			if coords == nil || geo.HaversineKm(*center, *coords) > *f.RadiusKm {
				continue
			}
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}
	return events, nil
}

// GetVolunteer returns the volunteer with the given ID.
func (s *PostgresStore) GetVolunteer(ctx context.Context, id string) (*Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	v, err := scanVolunteer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVolunteerNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get volunteer",
			slog.String("volunteer_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("getting volunteer %s: %w", id, err)
	}
	return v, nil
}

// GetEvent returns the event with the given ID.
func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get event",
			slog.String("event_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	return e, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVolunteer(row rowScanner) (*Volunteer, error) {
	var v Volunteer
	var skills, availability pq.StringArray
	var location sql.NullString

	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.Name,
		&skills,
		&availability,
		&v.HasTransport,
		&v.ReliabilityScore,
		&v.TotalHoursVolunteered,
		&location,
	)
	if err != nil {
		return nil, err
	}

	v.Skills = skills
	v.Availability = availability
	if location.Valid {
		v.Location = location.String
	}
	return &v, nil
}

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var description, location, createdBy sql.NullString
	var latitude, longitude sql.NullFloat64
	var skillsRequired pq.StringArray

	err := row.Scan(
		&e.ID,
		&e.Name,
		&description,
		&e.Type,
		&e.StartDate,
		&e.EndDate,
		&location,
		&latitude,
		&longitude,
		&e.RequiredVolunteers,
		&skillsRequired,
		&e.Status,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		e.Description = description.String
	}
	if location.Valid {
		e.Location = location.String
	}
	if createdBy.Valid {
		e.CreatedBy = createdBy.String
	}
	if latitude.Valid {
		lat := latitude.Float64
		e.Latitude = &lat
	}
	if longitude.Valid {
		lng := longitude.Float64
		e.Longitude = &lng
	}
	e.SkillsRequired = skillsRequired
	return &e, nil
}
