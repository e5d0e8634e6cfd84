// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/freeslot/internal/meeting"
)

// SQLite stores participants, their busy intervals, and booked
// appointments. It implements meeting.CalendarSource.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateParticipant adds a new participant. New participants start
// unauthorized and cannot be scheduled until authorized.
func (s *SQLite) CreateParticipant(ctx context.Context, name string, competences []string) (*meeting.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("participant name cannot be empty")
	}

	p := &meeting.Participant{
		Name:        name,
		Competences: competences,
		CreatedAt:   time.Now(),
	}

	query := `INSERT INTO participants (name, authorized, competences, created_at) VALUES (?, 0, ?, ?)`
	result, err := s.db.ExecContext(ctx, query,
		p.Name,
		strings.Join(competences, ","),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting participant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	p.ID = id

	return p, nil
}

// GetParticipant retrieves a participant by ID.
// Returns meeting.ErrParticipantNotFound if no such participant exists.
func (s *SQLite) GetParticipant(ctx context.Context, id int64) (*meeting.Participant, error) {
	query := `SELECT id, name, authorized, competences, created_at FROM participants WHERE id = ?`
	return s.scanParticipant(s.db.QueryRowContext(ctx, query, id))
}

// GetParticipantByName retrieves a participant by name.
// Returns meeting.ErrParticipantNotFound if no such participant exists.
func (s *SQLite) GetParticipantByName(ctx context.Context, name string) (*meeting.Participant, error) {
	query := `SELECT id, name, authorized, competences, created_at FROM participants WHERE name = ?`
	return s.scanParticipant(s.db.QueryRowContext(ctx, query, name))
}

func (s *SQLite) scanParticipant(row *sql.Row) (*meeting.Participant, error) {
	var (
		p           meeting.Participant
		authorized  int
		competences string
		createdAt   string
	)

	err := row.Scan(&p.ID, &p.Name, &authorized, &competences, &createdAt)
	if err == sql.ErrNoRows {
		return nil, meeting.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying participant: %w", err)
	}

	p.Authorized = authorized != 0
	if competences != "" {
		p.Competences = strings.Split(competences, ",")
	}
	p.CreatedAt, err = parseStoredTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &p, nil
}

// ListParticipants returns all participants ordered by name.
func (s *SQLite) ListParticipants(ctx context.Context) ([]*meeting.Participant, error) {
	query := `SELECT id, name, authorized, competences, created_at FROM participants ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var participants []*meeting.Participant
	for rows.Next() {
		var (
			p           meeting.Participant
			authorized  int
			competences string
			createdAt   string
		)
		if err := rows.Scan(&p.ID, &p.Name, &authorized, &competences, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		p.Authorized = authorized != 0
		if competences != "" {
			p.Competences = strings.Split(competences, ",")
		}
		p.CreatedAt, err = parseStoredTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return participants, nil
}

// SetAuthorized flips a participant's calendar authorization.
func (s *SQLite) SetAuthorized(ctx context.Context, id int64, authorized bool) error {
	val := 0
	if authorized {
		val = 1
	}

	result, err := s.db.ExecContext(ctx, `UPDATE participants SET authorized = ? WHERE id = ?`, val, id)
	if err != nil {
		return fmt.Errorf("updating authorization: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return meeting.ErrParticipantNotFound
	}

	return nil
}

// AddBusyInterval records one unavailable period for a participant.
func (s *SQLite) AddBusyInterval(ctx context.Context, participantID int64, iv meeting.BusyInterval) error {
	if _, err := s.GetParticipant(ctx, participantID); err != nil {
		return err
	}

	query := `INSERT INTO busy_intervals (participant_id, start_datetime, end_datetime) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		participantID,
		iv.Start.Format(time.RFC3339),
		iv.End.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting busy interval: %w", err)
	}

	return nil
}

// BusyIntervals returns a participant's busy intervals starting on the
// given calendar day, ordered by start time. It implements
// meeting.CalendarSource: an unauthorized participant yields
// meeting.ErrNotAuthorized, never an empty calendar.
func (s *SQLite) BusyIntervals(ctx context.Context, participantID int64, day time.Time) ([]meeting.BusyInterval, error) {
	p, err := s.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !p.Authorized {
		return nil, fmt.Errorf("participant %q: %w", p.Name, meeting.ErrNotAuthorized)
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT start_datetime, end_datetime
		FROM busy_intervals
		WHERE participant_id = ?
		  AND start_datetime >= ?
		  AND start_datetime < ?
		ORDER BY start_datetime
	`

	rows, err := s.db.QueryContext(ctx, query,
		participantID,
		dayStart.Format(time.RFC3339),
		dayEnd.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("querying busy intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var intervals []meeting.BusyInterval
	for rows.Next() {
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning busy interval: %w", err)
		}

		start, err := parseStoredTime(startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing interval start: %w", err)
		}
		end, err := parseStoredTime(endStr)
		if err != nil {
			return nil, fmt.Errorf("parsing interval end: %w", err)
		}

		intervals = append(intervals, meeting.BusyInterval{Start: start, End: end})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating busy intervals: %w", err)
	}

	return intervals, nil
}

// BookMeeting persists one appointment row per participant for the slot,
// all sharing a group GUID. Each participant's entry describes the meeting
// as being with the other participants. The booked slot is also recorded as
// a busy interval for every participant so a repeated search skips it.
// Returns the group GUID.
func (s *SQLite) BookMeeting(ctx context.Context, start, end time.Time, title string, participants []*meeting.Participant) (string, error) {
	if len(participants) == 0 {
		return "", meeting.ErrNoParticipants
	}
	if !end.After(start) {
		return "", meeting.ErrEndBeforeStart
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	groupGUID := uuid.NewString()

	insertAppointment := `
		INSERT INTO appointments (
			guid, group_guid, participant_id, title, description,
			start_datetime, end_datetime, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	insertBusy := `INSERT INTO busy_intervals (participant_id, start_datetime, end_datetime) VALUES (?, ?, ?)`

	now := time.Now().Format(time.RFC3339)
	for _, p := range participants {
		_, err := tx.ExecContext(ctx, insertAppointment,
			uuid.NewString(),
			groupGUID,
			p.ID,
			title,
			meetingDescription(p, participants),
			start.Format(time.RFC3339),
			end.Format(time.RFC3339),
			now,
		)
		if err != nil {
			return "", fmt.Errorf("inserting appointment for %q: %w", p.Name, err)
		}

		if _, err := tx.ExecContext(ctx, insertBusy, p.ID, start.Format(time.RFC3339), end.Format(time.RFC3339)); err != nil {
			return "", fmt.Errorf("marking slot busy for %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}

	return groupGUID, nil
}

// Appointment is one participant's view of a booked meeting.
type Appointment struct {
	GUID        string
	GroupGUID   string
	Participant string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// ListAppointments returns all appointments ordered by start time.
func (s *SQLite) ListAppointments(ctx context.Context) ([]Appointment, error) {
	query := `
		SELECT a.guid, a.group_guid, p.name, a.title, a.description, a.start_datetime, a.end_datetime
		FROM appointments a
		JOIN participants p ON p.id = a.participant_id
		ORDER BY a.start_datetime, p.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var appointments []Appointment
	for rows.Next() {
		var (
			a        Appointment
			startStr string
			endStr   string
		)
		if err := rows.Scan(&a.GUID, &a.GroupGUID, &a.Participant, &a.Title, &a.Description, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		a.Start, err = parseStoredTime(startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing appointment start: %w", err)
		}
		a.End, err = parseStoredTime(endStr)
		if err != nil {
			return nil, fmt.Errorf("parsing appointment end: %w", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}

	return appointments, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// meetingDescription builds "Meeting with ..." for one participant,
// naming everyone else in the group.
func meetingDescription(self *meeting.Participant, all []*meeting.Participant) string {
	others := make([]string, 0, len(all)-1)
	for _, p := range all {
		if p.ID != self.ID {
			others = append(others, p.Name)
		}
	}
	if len(others) == 0 {
		return "Meeting"
	}
	return "Meeting with " + strings.Join(others, ", ")
}

// parseStoredTime parses a timestamp string in the formats SQLite might
// return.
func parseStoredTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
