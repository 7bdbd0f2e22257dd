package app

import (
	"math"

	"quizboard/internal/domain"
)

// SubmissionSummary holds the derived stats for one answer set.
type SubmissionSummary struct {
	Score      int
	AvgTime    float64 // seconds
	FastestRsp float64 // seconds; +Inf when no answer carried a nonzero time
}

// ScoreSubmission computes the raw score and timing stats for one answer set
// against its quiz. Pure function; answers must be non-empty (validated by the
// caller).
//
// An answer whose questionId matches no question is never counted as correct,
// but its response time still feeds the timing aggregates. A response time of
// exactly 0 is treated as "not provided": it is excluded from the time sum and
// from the fastest-response comparison, yet the average still divides by the
// full answer count. Both rules are part of the deployed results contract.
func ScoreSubmission(quiz domain.Quiz, answers []domain.Answer) SubmissionSummary {
	byID := make(map[string]domain.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}

	score := 0
	totalTime := 0.0
	fastest := math.Inf(1)
	for _, a := range answers {
		if q, ok := byID[a.QuestionID]; ok && a.SelectedOption == q.CorrectAnswer {
			score++
		}
		if a.ResponseTime != 0 {
			totalTime += a.ResponseTime
			if a.ResponseTime < fastest {
				fastest = a.ResponseTime
			}
		}
	}

	return SubmissionSummary{
		Score:      score,
		AvgTime:    totalTime / float64(len(answers)),
		FastestRsp: fastest,
	}
}

// MarkCorrect derives each answer's IsCorrect flag against the quiz. Answers
// referencing unknown questions stay incorrect.
func MarkCorrect(quiz domain.Quiz, answers []domain.Answer) []domain.Answer {
	byID := make(map[string]domain.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}
	marked := make([]domain.Answer, len(answers))
	for i, a := range answers {
		q, ok := byID[a.QuestionID]
		a.IsCorrect = ok && a.SelectedOption == q.CorrectAnswer
		marked[i] = a
	}
	return marked
}
