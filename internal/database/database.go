package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scythe504/impostor-backend/internal"
)

// Service archives finished rounds and games in Postgres.
type Service interface {
	// Health returns a map of health status information.
	Health(ctx context.Context) map[string]string

	RecordRound(ctx context.Context, rec internal.RoundRecord) error
	RecordGame(ctx context.Context, rec internal.GameRecord) error

	// RecentRounds returns up to limit rounds of a room, newest first.
	RecentRounds(ctx context.Context, roomCode string, limit int) ([]internal.RoundRecord, error)

	Close()
}

type service struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS rounds (
	id                BIGSERIAL PRIMARY KEY,
	room_code         TEXT        NOT NULL,
	round             INTEGER     NOT NULL,
	total_rounds      INTEGER     NOT NULL,
	impostor          TEXT        NOT NULL,
	normal_question   TEXT        NOT NULL,
	impostor_question TEXT        NOT NULL,
	voted_player      TEXT        NOT NULL DEFAULT '',
	is_draw           BOOLEAN     NOT NULL,
	was_impostor      BOOLEAN     NOT NULL,
	answers           JSONB       NOT NULL,
	votes             JSONB       NOT NULL,
	played_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS rounds_room_code_played_at ON rounds (room_code, played_at DESC);

CREATE TABLE IF NOT EXISTS games (
	id           BIGSERIAL PRIMARY KEY,
	room_code    TEXT        NOT NULL,
	total_rounds INTEGER     NOT NULL,
	players      TEXT[]      NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL
);
`

// New connects to databaseURL and creates the archive tables if needed.
func New(ctx context.Context, databaseURL string) (Service, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: migrate: %w", err)
	}
	return &service{pool: pool}, nil
}

func (s *service) RecordRound(ctx context.Context, rec internal.RoundRecord) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("database: encode answers: %w", err)
	}
	votes, err := json.Marshal(rec.Votes)
	if err != nil {
		return fmt.Errorf("database: encode votes: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO rounds (room_code, round, total_rounds, impostor, normal_question, impostor_question,
			voted_player, is_draw, was_impostor, answers, votes, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.RoomCode, rec.Round, rec.TotalRounds, rec.Impostor, rec.NormalQuestion, rec.ImpostorQuestion,
		rec.VotedPlayer, rec.IsDraw, rec.WasImpostor, answers, votes, rec.PlayedAt)
	if err != nil {
		return fmt.Errorf("database: insert round: %w", err)
	}
	return nil
}

func (s *service) RecordGame(ctx context.Context, rec internal.GameRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO games (room_code, total_rounds, players, finished_at)
		VALUES ($1, $2, $3, $4)`,
		rec.RoomCode, rec.TotalRounds, rec.Players, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("database: insert game: %w", err)
	}
	return nil
}

func (s *service) RecentRounds(ctx context.Context, roomCode string, limit int) ([]internal.RoundRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT room_code, round, total_rounds, impostor, normal_question, impostor_question,
			voted_player, is_draw, was_impostor, answers, votes, played_at
		FROM rounds
		WHERE room_code = $1
		ORDER BY played_at DESC, id DESC
		LIMIT $2`, roomCode, limit)
	if err != nil {
		return nil, fmt.Errorf("database: query rounds: %w", err)
	}
	defer rows.Close()

	records := make([]internal.RoundRecord, 0, limit)
	for rows.Next() {
		var (
			rec            internal.RoundRecord
			answers, votes []byte
		)
		if err := rows.Scan(&rec.RoomCode, &rec.Round, &rec.TotalRounds, &rec.Impostor, &rec.NormalQuestion,
			&rec.ImpostorQuestion, &rec.VotedPlayer, &rec.IsDraw, &rec.WasImpostor, &answers, &votes,
			&rec.PlayedAt); err != nil {
			return nil, fmt.Errorf("database: scan round: %w", err)
		}
		if err := json.Unmarshal(answers, &rec.Answers); err != nil {
			return nil, fmt.Errorf("database: decode answers: %w", err)
		}
		if err := json.Unmarshal(votes, &rec.Votes); err != nil {
			return nil, fmt.Errorf("database: decode votes: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate rounds: %w", err)
	}
	return records, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("[database] health check failed: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	poolStats := s.pool.Stat()
	stats["total_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_connections"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	if poolStats.AcquiredConns() >= poolStats.MaxConns() {
		stats["message"] = "The database pool is exhausted."
	}
	return stats
}

// Close closes the pool. Archive writes still in flight fail.
func (s *service) Close() {
	log.Printf("[database] closing pool")
	s.pool.Close()
}
