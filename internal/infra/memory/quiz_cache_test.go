package memory

import (
	"context"
	"testing"
	"time"

	"quizboard/internal/app"
	"quizboard/internal/domain"
)

func TestQuizCacheHitsBackingStoreOnce(t *testing.T) {
	store := &countingStore{QuizStore: NewQuizStoreWith(sampleQuiz())}
	cache := NewQuizCache(store, time.Minute)

	if _, err := cache.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected store hit once, got %d", store.calls)
	}

	if _, err := cache.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected cache hit, store calls %d", store.calls)
	}
}

func TestQuizCacheWarmsOnCreate(t *testing.T) {
	store := &countingStore{QuizStore: NewQuizStore()}
	cache := NewQuizCache(store, time.Minute)

	if err := cache.CreateQuiz(context.Background(), sampleQuiz()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cache.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected read served from warmed cache, store calls %d", store.calls)
	}
}

type countingStore struct {
	app.QuizStore
	calls int
}

func (s *countingStore) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	s.calls++
	return s.QuizStore.GetQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Sample",
		Type:  domain.TypeQuiz,
		Questions: []domain.Question{
			{ID: "q1", Text: "What is 2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: 1, TimerSeconds: 30},
		},
	}
}
