package store

import (
	"context"
	"cuentas_claras/internal/models"
	"database/sql"
	"errors"
)

const participantColumns = "id, event_id, name, email, created_at"

func scanParticipant(row interface{ Scan(...any) error }) (models.Participant, error) {
	var (
		p       models.Participant
		created nullTime
	)
	if err := row.Scan(&p.ID, &p.EventID, &p.Name, &p.Email, &created); err != nil {
		return p, err
	}
	p.CreatedAt = created.Time
	return p, nil
}

func (s *Store) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}

	res, err := s.q.ExecContext(ctx,
		"INSERT INTO participants (event_id, name, email, created_at) VALUES (?, ?, ?, ?)",
		p.EventID, p.Name, p.Email, formatTime(p.CreatedAt))
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetParticipant(ctx context.Context, id int64) (models.Participant, error) {
	p, err := scanParticipant(s.q.QueryRowContext(ctx, "SELECT "+participantColumns+" FROM participants WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// ListParticipants returns the participants of eventID, or of every event
// when eventID is zero, in insertion order.
func (s *Store) ListParticipants(ctx context.Context, eventID int64) ([]models.Participant, error) {
	query := "SELECT " + participantColumns + " FROM participants"
	var args []any
	if eventID != 0 {
		query += " WHERE event_id = ?"
		args = append(args, eventID)
	}
	query += " ORDER BY id"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ParticipantInUse reports whether any expense or debt references id.
func (s *Store) ParticipantInUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM expenses WHERE participant_id = ?)
			OR EXISTS(SELECT 1 FROM debts WHERE participant_id = ? OR owed_to_participant_id = ?)`,
		id, id, id).Scan(&inUse)
	return inUse, err
}

func (s *Store) DeleteParticipant(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}
