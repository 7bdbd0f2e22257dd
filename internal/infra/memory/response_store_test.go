package memory

import (
	"context"
	"errors"
	"testing"

	"quizboard/internal/domain"
)

func TestResponseStoreRejectsDuplicatePair(t *testing.T) {
	store := NewResponseStore()
	ctx := context.Background()

	first := domain.Response{ID: "r1", PlayerID: "p1", QuizID: "quiz-1", Score: 2}
	if err := store.InsertResponse(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := store.InsertResponse(ctx, domain.Response{ID: "r2", PlayerID: "p1", QuizID: "quiz-1", Score: 0})
	if !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	stored, err := store.FindResponse(ctx, "p1", "quiz-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.ID != "r1" || stored.Score != 2 {
		t.Fatalf("first response must survive the duplicate, got %+v", stored)
	}

	// Same player on another quiz is a different pair.
	if err := store.InsertResponse(ctx, domain.Response{ID: "r3", PlayerID: "p1", QuizID: "quiz-2"}); err != nil {
		t.Fatalf("insert other quiz: %v", err)
	}
}

func TestResponseStoreListsInSubmissionOrder(t *testing.T) {
	store := NewResponseStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.InsertResponse(ctx, domain.Response{ID: id, PlayerID: id, QuizID: "quiz-1"}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	responses, err := store.ListResponsesByQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	for i, want := range []string{"a", "b", "c"} {
		if responses[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, responses[i].ID)
		}
	}
}

func TestResponseStoreFindMissing(t *testing.T) {
	store := NewResponseStore()
	if _, err := store.FindResponse(context.Background(), "p1", "quiz-1"); !errors.Is(err, domain.ErrResponseNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
