package memory

import (
	"context"
	"fmt"
	"sync"

	"quizboard/internal/domain"
)

// PlayerStore is an in-memory implementation of app.PlayerStore. Players are
// listed in join order.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]domain.Player
	byQuiz  map[string][]string
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		players: make(map[string]domain.Player),
		byQuiz:  make(map[string][]string),
	}
}

func (s *PlayerStore) CreatePlayer(_ context.Context, player domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; ok {
		return fmt.Errorf("player %s already exists", player.ID)
	}
	s.players[player.ID] = player
	s.byQuiz[player.QuizID] = append(s.byQuiz[player.QuizID], player.ID)
	return nil
}

func (s *PlayerStore) GetPlayer(_ context.Context, playerID string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[playerID]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return player, nil
}

func (s *PlayerStore) ListPlayersByQuiz(_ context.Context, quizID string) ([]domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byQuiz[quizID]
	players := make([]domain.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, s.players[id])
	}
	return players, nil
}
