package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizboard/internal/domain"
)

// PlayerStore persists quiz participants. ListPlayersByQuiz returns join order.
type PlayerStore struct {
	pool *pgxpool.Pool
}

func NewPlayerStore(pool *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, player domain.Player) error {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO players (id, quiz_id, name) VALUES ($1, $2, $3)`,
		player.ID, player.QuizID, player.Name,
	); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (s *PlayerStore) GetPlayer(ctx context.Context, playerID string) (domain.Player, error) {
	var player domain.Player
	err := s.pool.QueryRow(ctx,
		`SELECT id, quiz_id, name FROM players WHERE id=$1`, playerID,
	).Scan(&player.ID, &player.QuizID, &player.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("load player: %w", err)
	}
	return player, nil
}

func (s *PlayerStore) ListPlayersByQuiz(ctx context.Context, quizID string) ([]domain.Player, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, quiz_id, name FROM players WHERE quiz_id=$1 ORDER BY joined_at, id`, quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var player domain.Player
		if err := rows.Scan(&player.ID, &player.QuizID, &player.Name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}
