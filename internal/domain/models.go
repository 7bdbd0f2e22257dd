package domain

import (
	"encoding/json"
	"math"
	"time"
)

// QuizType distinguishes scored quizzes from opinion polls.
type QuizType string

const (
	// TypeQuiz submissions are scored against correct answers; unanswered
	// questions are backfilled before scoring.
	TypeQuiz QuizType = "quiz"
	// TypePoll submissions carry no correctness pressure; unanswered
	// questions are simply omitted.
	TypePoll QuizType = "poll"
)

const (
	// DefaultTimerSeconds applies when a question is created without a timer.
	DefaultTimerSeconds = 30
	// MinTimerSeconds and MaxTimerSeconds bound per-question timers.
	MinTimerSeconds = 5
	MaxTimerSeconds = 300
)

// UnansweredOption is the wire sentinel for "player did not pick an option".
const UnansweredOption = -1

// Question models an MCQ question; CorrectAnswer indexes into Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	TimerSeconds  int      `json:"timerSeconds"`
}

// Quiz is an ordered, immutable-after-creation set of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Type      QuizType   `json:"type"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Player is a participant in one quiz; consumed for display-name lookup.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	QuizID string `json:"quizId"`
}

// Answer is one player's answer to one question.
type Answer struct {
	QuestionID     string  `json:"questionId"`
	SelectedOption int     `json:"selectedOption"`
	ResponseTime   float64 `json:"responseTime"` // seconds
	IsCorrect      bool    `json:"isCorrect"`
}

// Response is one player's complete submission for one quiz. Score and the
// timing stats are derived once at creation and never recomputed. At most one
// Response exists per (PlayerID, QuizID); the store enforces this.
type Response struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	QuizID     string    `json:"quizId"`
	Answers    []Answer  `json:"answers"`
	Score      int       `json:"score"`
	AvgTime    float64   `json:"averageResponseTime"` // seconds
	FastestRsp float64   `json:"fastestResponse"`     // seconds; +Inf when no timed answers
	CreatedAt  time.Time `json:"createdAt"`
}

// LeaderboardEntry is one ranked row of a quiz's results.
type LeaderboardEntry struct {
	Player         Player  `json:"player"`
	Score          int     `json:"score"`
	AvgTime        float64 `json:"averageResponseTime"`
	FastestRsp     float64 `json:"fastestResponse"` // +Inf when no timed answers
	TotalQuestions int     `json:"totalQuestions"`
	TimeEfficiency string  `json:"timeEfficiency"` // e.g. "75.0%"
	CombinedScore  float64 `json:"combinedScore"`
}

// MarshalJSON writes FastestRsp as null when no timed answers exist (+Inf
// sentinel). Consumers already treat a null fastestResponse as "no data".
func (e LeaderboardEntry) MarshalJSON() ([]byte, error) {
	type alias LeaderboardEntry
	var fastest *float64
	if !math.IsInf(e.FastestRsp, 1) {
		fastest = &e.FastestRsp
	}
	return json.Marshal(&struct {
		FastestRsp *float64 `json:"fastestResponse"`
		alias
	}{
		FastestRsp: fastest,
		alias:      (alias)(e),
	})
}

// UnmarshalJSON restores the +Inf sentinel from a null fastestResponse.
func (e *LeaderboardEntry) UnmarshalJSON(data []byte) error {
	type alias LeaderboardEntry
	aux := &struct {
		FastestRsp *float64 `json:"fastestResponse"`
		*alias
	}{
		alias: (*alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.FastestRsp != nil {
		e.FastestRsp = *aux.FastestRsp
	} else {
		e.FastestRsp = math.Inf(1)
	}
	return nil
}
