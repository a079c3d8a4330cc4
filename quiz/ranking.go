package quiz

import (
	"sort"
	"strconv"

	"github.com/adamspd/QuizTrack/models"
)

// ComputeRanks orders students by XP, then accuracy, then earliest signup and
// returns their 1-based position. Students without attempts are unranked.
func ComputeRanks(totals []models.StudentTotals) map[string]string {
	ranks := make(map[string]string, len(totals))

	ranked := make([]models.StudentTotals, 0, len(totals))
	for _, t := range totals {
		if t.Attempts <= 0 {
			ranks[t.UserID] = NoRank
			continue
		}
		ranked = append(ranked, t)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		accA := a.PercentageSum / float64(a.Attempts)
		accB := b.PercentageSum / float64(b.Attempts)
		if accA != accB {
			return accA > accB
		}
		if !a.SignedUpAt.Equal(b.SignedUpAt) {
			return a.SignedUpAt.Before(b.SignedUpAt)
		}
		return a.UserID < b.UserID
	})

	for idx, t := range ranked {
		ranks[t.UserID] = strconv.Itoa(idx + 1)
	}
	return ranks
}
