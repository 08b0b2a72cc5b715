package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// EventRepository defines persistence operations for calendar events.
type EventRepository interface {
	Create(ctx context.Context, evt *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, evt *Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Event, error)
}

// eventRepo is the MariaDB implementation of EventRepository.
type eventRepo struct {
	db *sql.DB
}

// NewEventRepository creates a new MariaDB-backed event repository.
func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepo{db: db}
}

// eventCols is the column list for event queries.
const eventCols = `id, title, description, event_type, status, start_date, end_date,
       all_day, color, social_media_post_id, metadata, created_at, updated_at`

// scanEvent reads a row into an Event. The metadata column is JSON.
func scanEvent(scanner interface{ Scan(...any) error }) (*Event, error) {
	evt := &Event{}
	var metadata sql.NullString
	err := scanner.Scan(&evt.ID, &evt.Title, &evt.Description, &evt.EventType, &evt.Status,
		&evt.StartDate, &evt.EndDate, &evt.AllDay, &evt.Color, &evt.SocialMediaPostID,
		&metadata, &evt.CreatedAt, &evt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &evt.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for event %s: %w", evt.ID, err)
		}
	}
	return evt, nil
}

// encodeMetadata marshals metadata for the JSON column; empty maps are NULL.
func encodeMetadata(m map[string]any) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	return string(b), nil
}

// Create inserts a new event.
func (r *eventRepo) Create(ctx context.Context, evt *Event) error {
	metadata, err := encodeMetadata(evt.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO calendar_events (id, title, description, event_type, status,
		        start_date, end_date, all_day, color, social_media_post_id, metadata,
		        created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.Title, evt.Description, evt.EventType, evt.Status,
		evt.StartDate, evt.EndDate, evt.AllDay, evt.Color, evt.SocialMediaPostID, metadata,
		evt.CreatedAt, evt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting calendar event: %w", err)
	}
	return nil
}

// FindByID returns a single event, or nil if it does not exist.
func (r *eventRepo) FindByID(ctx context.Context, id string) (*Event, error) {
	evt, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventCols+` FROM calendar_events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return evt, err
}

// Update modifies an existing event.
func (r *eventRepo) Update(ctx context.Context, evt *Event) error {
	metadata, err := encodeMetadata(evt.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE calendar_events
		 SET title = ?, description = ?, event_type = ?, status = ?,
		     start_date = ?, end_date = ?, all_day = ?, color = ?,
		     social_media_post_id = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		evt.Title, evt.Description, evt.EventType, evt.Status,
		evt.StartDate, evt.EndDate, evt.AllDay, evt.Color,
		evt.SocialMediaPostID, metadata, evt.UpdatedAt, evt.ID,
	)
	if err != nil {
		return fmt.Errorf("updating calendar event: %w", err)
	}
	return nil
}

// Delete removes an event. Deleting a missing row is not an error.
func (r *eventRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting calendar event: %w", err)
	}
	return nil
}

// List returns every event, most recently created first.
func (r *eventRepo) List(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM calendar_events ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *evt)
	}
	return events, rows.Err()
}
