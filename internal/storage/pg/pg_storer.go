package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	return &Storer{db: pool.conn}, nil
}

const recordColumns = `id, participant, task, round, ground_truth, submission, payload, created_at`

func (s *Storer) Save(ctx context.Context, rec storage.Record) (uuid.UUID, error) {
	rec = rec.Prepare(time.Now())

	payloadJSON, err := json.Marshal(rec.Payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	cmd := `
        INSERT INTO evaluations (id, participant, task, round, ground_truth, submission, precision, recall, f1, payload, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id;
    `
	var id uuid.UUID
	err = s.db.QueryRow(
		ctx,
		cmd,
		rec.ID,
		rec.Participant,
		string(rec.Task),
		int(rec.Round),
		rec.GroundTruth,
		rec.Submission,
		rec.Payload.Precision,
		rec.Payload.Recall,
		rec.Payload.F1,
		payloadJSON,
		rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert evaluation: %w", err)
	}

	return id, nil
}

func (s *Storer) Get(ctx context.Context, id uuid.UUID) (storage.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM evaluations WHERE id = $1`

	rec, err := scanRecord(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Record{}, fmt.Errorf("evaluation %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return rec, nil
}

func (s *Storer) Leaderboard(ctx context.Context, task annotation.Task, round annotation.Round, limit int) ([]storage.Record, error) {
	if limit <= 0 {
		limit = storage.DefaultLeaderboardLimit
	}

	query := `
        SELECT ` + recordColumns + `
        FROM (
            SELECT DISTINCT ON (participant) *
            FROM evaluations
            WHERE task = $1 AND round = $2
            ORDER BY participant, f1 DESC, precision DESC, created_at ASC
        ) best
        ORDER BY f1 DESC, precision DESC, created_at ASC, participant ASC
        LIMIT $3
    `

	rows, err := s.db.Query(ctx, query, string(task), int(round), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	records := make([]storage.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return records, nil
}

func scanRecord(row pgx.Row) (storage.Record, error) {
	var (
		rec         storage.Record
		task        string
		round       int
		payloadJSON []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.Participant,
		&task,
		&round,
		&rec.GroundTruth,
		&rec.Submission,
		&payloadJSON,
		&rec.CreatedAt,
	)
	if err != nil {
		return storage.Record{}, err
	}

	rec.Task = annotation.Task(task)
	rec.Round = annotation.Round(round)
	if err := json.Unmarshal(payloadJSON, &rec.Payload); err != nil {
		return storage.Record{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return rec, nil
}
