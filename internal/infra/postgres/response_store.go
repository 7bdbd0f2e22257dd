package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizboard/internal/domain"
)

// pgUniqueViolation is the SQLSTATE raised when the (player_id, quiz_id)
// unique index rejects a second submission.
const pgUniqueViolation = "23505"

// ResponseStore persists submissions. Derived score/timing columns are written
// once at insert and never updated; answers are stored as JSONB.
// ListResponsesByQuiz returns submission order, which doubles as the
// leaderboard tiebreaker.
type ResponseStore struct {
	pool *pgxpool.Pool
}

func NewResponseStore(pool *pgxpool.Pool) *ResponseStore {
	return &ResponseStore{pool: pool}
}

func (s *ResponseStore) InsertResponse(ctx context.Context, response domain.Response) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO responses (id, player_id, quiz_id, answers, score, avg_time, fastest, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		response.ID, response.PlayerID, response.QuizID, answers,
		response.Score, response.AvgTime, response.FastestRsp, response.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateSubmission
		}
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *ResponseStore) FindResponse(ctx context.Context, playerID, quizID string) (domain.Response, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, player_id, quiz_id, answers, score, avg_time, fastest, created_at
		 FROM responses WHERE player_id=$1 AND quiz_id=$2`,
		playerID, quizID,
	)
	response, err := scanResponse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	if err != nil {
		return domain.Response{}, fmt.Errorf("load response: %w", err)
	}
	return response, nil
}

func (s *ResponseStore) ListResponsesByQuiz(ctx context.Context, quizID string) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, player_id, quiz_id, answers, score, avg_time, fastest, created_at
		 FROM responses WHERE quiz_id=$1 ORDER BY created_at, id`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []domain.Response
	for rows.Next() {
		response, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

func scanResponse(row pgx.Row) (domain.Response, error) {
	var response domain.Response
	var answers []byte
	if err := row.Scan(
		&response.ID, &response.PlayerID, &response.QuizID, &answers,
		&response.Score, &response.AvgTime, &response.FastestRsp, &response.CreatedAt,
	); err != nil {
		return domain.Response{}, err
	}
	if err := json.Unmarshal(answers, &response.Answers); err != nil {
		return domain.Response{}, err
	}
	return response, nil
}
