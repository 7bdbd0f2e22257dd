package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizboard/internal/app"
	"quizboard/internal/domain"
	"quizboard/internal/infra/memory"
)

func TestQuizCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := &countingStore{QuizStore: memory.NewQuizStoreWith(sampleQuiz())}
	cache := NewQuizCache(client, store, time.Minute)

	quiz, err := cache.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected store called once, got %d", store.calls)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].TimerSeconds != 30 {
		t.Fatalf("cached quiz must keep timers and options, got %+v", quiz)
	}
	if !mr.Exists("quiz:quiz-1") {
		t.Fatalf("expected redis key to be set")
	}

	// Second read hits redis, not the store.
	if _, err := cache.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected cache hit, store calls=%d", store.calls)
	}
}

func TestQuizCacheWarmsOnCreate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := &countingStore{QuizStore: memory.NewQuizStore()}
	cache := NewQuizCache(newClient(mr), store, time.Minute)

	if err := cache.CreateQuiz(context.Background(), sampleQuiz()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cache.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected read served from warmed cache, store calls=%d", store.calls)
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
