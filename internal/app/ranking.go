package app

import (
	"fmt"
	"sort"

	"quizboard/internal/domain"
)

const (
	accuracyWeight   = 0.8
	efficiencyWeight = 0.2
)

// RankResults turns the stored responses for one quiz into an ordered
// leaderboard. Accuracy is weighted 4x over speed in the combined score.
//
// A response whose playerId has no matching player record is dropped rather
// than failing the whole leaderboard. Ties on combined score keep the
// responses' retrieval order (stable sort).
func RankResults(quiz domain.Quiz, responses []domain.Response, players []domain.Player) []domain.LeaderboardEntry {
	byID := make(map[string]domain.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	maxScore := len(quiz.Questions)
	totalAllowedMs := 0.0
	for _, q := range quiz.Questions {
		totalAllowedMs += float64(q.TimerSeconds) * 1000
	}

	entries := make([]domain.LeaderboardEntry, 0, len(responses))
	for _, r := range responses {
		player, ok := byID[r.PlayerID]
		if !ok {
			continue
		}

		scorePct := float64(r.Score) / float64(maxScore) * 100
		efficiency := timeEfficiency(r.AvgTime*1000, totalAllowedMs/float64(maxScore))

		entries = append(entries, domain.LeaderboardEntry{
			Player:         player,
			Score:          r.Score,
			AvgTime:        r.AvgTime,
			FastestRsp:     r.FastestRsp,
			TotalQuestions: maxScore,
			TimeEfficiency: fmt.Sprintf("%.1f%%", efficiency),
			CombinedScore:  scorePct*accuracyWeight + efficiency*efficiencyWeight,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CombinedScore > entries[j].CombinedScore
	})
	return entries
}

// timeEfficiency is 100 at an instant average answer and falls linearly to 0
// as the average approaches the per-question time allowance, clamped at 0.
func timeEfficiency(avgMs, allowedPerQuestionMs float64) float64 {
	if allowedPerQuestionMs <= 0 {
		return 0
	}
	eff := 100 * (1 - avgMs/allowedPerQuestionMs)
	if eff < 0 {
		return 0
	}
	return eff
}
