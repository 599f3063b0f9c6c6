package models

import (
	"fmt"
	"strings"
)

// RankedStats is the solo queue standing cached on an account.
type RankedStats struct {
	Tier   string `json:"tier"`
	Rank   string `json:"rank"`
	LP     int    `json:"lp"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// String returns "GOLD II", or just the tier for apex tiers.
func (s RankedStats) String() string {
	if s.Rank == "" {
		return s.Tier
	}
	return s.Tier + " " + s.Rank
}

// Games is wins plus losses.
func (s RankedStats) Games() int { return s.Wins + s.Losses }

// WinRate returns the win percentage, 0 when no games were played.
func (s RankedStats) WinRate() float64 {
	if s.Games() == 0 {
		return 0
	}
	return float64(s.Wins) * 100 / float64(s.Games())
}

// Summary is the one-line form shown on an account card.
func (s RankedStats) Summary() string {
	return fmt.Sprintf("%s %d LP, %dW/%dL (%.0f%%)", s.String(), s.LP, s.Wins, s.Losses, s.WinRate())
}

// Unranked is the rank label used before any placement.
const Unranked = "Unranked"

// tierOrder ranks tiers from lowest to highest.
var tierOrder = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

// TierIndex returns the position of the tier contained in a rank label such
// as "Platinum IV", or -1 for unranked/unknown labels.
func TierIndex(label string) int {
	fields := strings.Fields(strings.ToUpper(label))
	if len(fields) == 0 {
		return -1
	}
	if idx, ok := tierOrder[fields[0]]; ok {
		return idx
	}
	return -1
}
