package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"quizboard/internal/domain"
)

// QuizStore persists quiz content.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// PlayerStore persists quiz participants.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, player domain.Player) error
	GetPlayer(ctx context.Context, playerID string) (domain.Player, error)
	ListPlayersByQuiz(ctx context.Context, quizID string) ([]domain.Player, error)
}

// ResponseStore persists submissions. InsertResponse must be atomic and fail
// with domain.ErrDuplicateSubmission when a response already exists for the
// same (player, quiz) pair; this is the only concurrency-sensitive invariant.
type ResponseStore interface {
	InsertResponse(ctx context.Context, response domain.Response) error
	FindResponse(ctx context.Context, playerID, quizID string) (domain.Response, error)
	ListResponsesByQuiz(ctx context.Context, quizID string) ([]domain.Response, error)
}

// ResultsCache holds ranked leaderboards for the client poll interval.
// Misses are not errors; Get reports found=false.
type ResultsCache interface {
	Get(ctx context.Context, quizID string) ([]domain.LeaderboardEntry, bool)
	Set(ctx context.Context, quizID string, entries []domain.LeaderboardEntry)
}

// QuizService contains the quiz/poll use cases.
type QuizService struct {
	quizzes   QuizStore
	players   PlayerStore
	responses ResponseStore
	results   ResultsCache
	now       func() time.Time
}

func NewQuizService(quizzes QuizStore, players PlayerStore, responses ResponseStore, results ResultsCache) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		players:   players,
		responses: responses,
		results:   results,
		now:       time.Now,
	}
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(quizzes QuizStore, players PlayerStore, responses ResponseStore, results ResultsCache, now func() time.Time) *QuizService {
	s := NewQuizService(quizzes, players, responses, results)
	s.now = now
	return s
}

// CreateQuiz validates and stores a new quiz. Question IDs and the quiz ID are
// assigned server-side; a zero timer takes the default.
func (s *QuizService) CreateQuiz(ctx context.Context, title string, quizType domain.QuizType, questions []domain.Question) (domain.Quiz, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Quiz{}, domain.Validationf("quiz title must not be empty")
	}
	if quizType == "" {
		quizType = domain.TypeQuiz
	}
	if quizType != domain.TypeQuiz && quizType != domain.TypePoll {
		return domain.Quiz{}, domain.Validationf("unknown quiz type %q", quizType)
	}
	if len(questions) == 0 {
		return domain.Quiz{}, domain.Validationf("quiz must have at least one question")
	}

	prepared := make([]domain.Question, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return domain.Quiz{}, domain.Validationf("question %d: text must not be empty", i+1)
		}
		if len(q.Options) < 2 {
			return domain.Quiz{}, domain.Validationf("question %d: needs at least two options", i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return domain.Quiz{}, domain.Validationf("question %d: correctAnswer out of range", i+1)
		}
		if q.TimerSeconds == 0 {
			q.TimerSeconds = domain.DefaultTimerSeconds
		}
		if q.TimerSeconds < domain.MinTimerSeconds || q.TimerSeconds > domain.MaxTimerSeconds {
			return domain.Quiz{}, domain.Validationf("question %d: timer must be between %d and %d seconds", i+1, domain.MinTimerSeconds, domain.MaxTimerSeconds)
		}
		q.ID = uuid.NewString()
		prepared[i] = q
	}

	quiz := domain.Quiz{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Type:      quizType,
		Questions: prepared,
		CreatedAt: s.now(),
	}
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// GetQuiz loads quiz content for play.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// Join registers a named player in a quiz.
func (s *QuizService) Join(ctx context.Context, quizID, name string) (domain.Player, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Player{}, domain.Validationf("player name must not be empty")
	}
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.Player{}, err
	}
	player := domain.Player{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		QuizID: quizID,
	}
	if err := s.players.CreatePlayer(ctx, player); err != nil {
		return domain.Player{}, err
	}
	return player, nil
}

// Submit records a player's one-and-only answer set for a quiz, with scoring
// and timing stats baked in at creation time. A second submission for the same
// (player, quiz) pair is rejected and leaves the first untouched; two racing
// submissions resolve at the store's uniqueness constraint, so the pre-check
// here is an early exit, not the guarantee.
func (s *QuizService) Submit(ctx context.Context, quizID, playerID string, answers []domain.Answer) (domain.Response, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Response{}, err
	}
	player, err := s.players.GetPlayer(ctx, playerID)
	if err != nil {
		return domain.Response{}, err
	}
	if player.QuizID != quizID {
		return domain.Response{}, domain.ErrPlayerNotFound
	}
	if len(answers) == 0 {
		return domain.Response{}, domain.Validationf("answers must not be empty")
	}
	// One answer per question: repeats would each score independently and
	// push the score past the question count.
	seen := make(map[string]bool, len(answers))
	for _, a := range answers {
		if seen[a.QuestionID] {
			return domain.Response{}, domain.Validationf("duplicate answer for question %s", a.QuestionID)
		}
		seen[a.QuestionID] = true
	}

	if _, err := s.responses.FindResponse(ctx, playerID, quizID); err == nil {
		return domain.Response{}, domain.ErrDuplicateSubmission
	} else if !errors.Is(err, domain.ErrResponseNotFound) {
		return domain.Response{}, err
	}

	normalized := normalizeAnswers(quiz, answers)
	if len(normalized) == 0 {
		return domain.Response{}, domain.Validationf("no answered questions in submission")
	}
	marked := MarkCorrect(quiz, normalized)
	summary := ScoreSubmission(quiz, marked)

	response := domain.Response{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		QuizID:     quizID,
		Answers:    marked,
		Score:      summary.Score,
		AvgTime:    summary.AvgTime,
		FastestRsp: summary.FastestRsp,
		CreatedAt:  s.now(),
	}
	if err := s.responses.InsertResponse(ctx, response); err != nil {
		return domain.Response{}, err
	}
	return response, nil
}

// Results derives the ranked leaderboard for a quiz. Ranking is computed fresh
// from stored responses on every read (cache TTL aside); nothing is stored.
func (s *QuizService) Results(ctx context.Context, quizID string) ([]domain.LeaderboardEntry, error) {
	if entries, ok := s.results.Get(ctx, quizID); ok {
		return entries, nil
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListResponsesByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	players, err := s.players.ListPlayersByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	entries := RankResults(quiz, responses, players)
	s.results.Set(ctx, quizID, entries)
	return entries, nil
}

// normalizeAnswers applies the per-type completion policy before scoring.
// Quiz-type: unanswered questions are backfilled as option 0 at full timer.
// Poll-type: unanswered questions are dropped.
func normalizeAnswers(quiz domain.Quiz, answers []domain.Answer) []domain.Answer {
	if quiz.Type == domain.TypePoll {
		kept := make([]domain.Answer, 0, len(answers))
		for _, a := range answers {
			if a.SelectedOption == domain.UnansweredOption {
				continue
			}
			kept = append(kept, a)
		}
		return kept
	}

	answered := make(map[string]bool, len(answers))
	normalized := make([]domain.Answer, 0, len(quiz.Questions))
	for _, a := range answers {
		answered[a.QuestionID] = true
		normalized = append(normalized, a)
	}
	for _, q := range quiz.Questions {
		if answered[q.ID] {
			continue
		}
		normalized = append(normalized, domain.Answer{
			QuestionID:     q.ID,
			SelectedOption: 0,
			ResponseTime:   float64(q.TimerSeconds),
		})
	}
	return normalized
}
