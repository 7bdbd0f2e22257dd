package memory

import (
	"context"
	"sync"

	"quizboard/internal/domain"
)

// ResponseStore is an in-memory implementation of app.ResponseStore. The
// (player, quiz) uniqueness check and the append happen under one lock, so
// racing submissions resolve the same way the unique index does in postgres.
// Responses are listed in submission order.
type ResponseStore struct {
	mu     sync.RWMutex
	byPair map[string]domain.Response
	byQuiz map[string][]string
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{
		byPair: make(map[string]domain.Response),
		byQuiz: make(map[string][]string),
	}
}

func (s *ResponseStore) InsertResponse(_ context.Context, response domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(response.PlayerID, response.QuizID)
	if _, ok := s.byPair[key]; ok {
		return domain.ErrDuplicateSubmission
	}
	s.byPair[key] = response
	s.byQuiz[response.QuizID] = append(s.byQuiz[response.QuizID], key)
	return nil
}

func (s *ResponseStore) FindResponse(_ context.Context, playerID, quizID string) (domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	response, ok := s.byPair[pairKey(playerID, quizID)]
	if !ok {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	return response, nil
}

func (s *ResponseStore) ListResponsesByQuiz(_ context.Context, quizID string) ([]domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.byQuiz[quizID]
	responses := make([]domain.Response, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, s.byPair[key])
	}
	return responses, nil
}

func pairKey(playerID, quizID string) string {
	return playerID + "|" + quizID
}
