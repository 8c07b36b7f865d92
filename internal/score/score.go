// Package score keeps the local high-score list.
package score

import (
	"fmt"
	"strconv"

	"github.com/tomz197/novarush/internal/loop/config"
)

// Entry is one finished round.
type Entry struct {
	Score      int
	Time       int64 // Survival time in whole seconds
	NearMisses int
}

// FinalScore converts round stats into points.
func FinalScore(survivalTime int64, nearMisses int) int {
	return int(survivalTime)*config.ScorePerSecond + nearMisses*config.ScorePerNearMiss
}

// NewEntry builds an entry with its score derived from the stats.
func NewEntry(survivalTime int64, nearMisses int) Entry {
	return Entry{
		Score:      FinalScore(survivalTime, nearMisses),
		Time:       survivalTime,
		NearMisses: nearMisses,
	}
}

// Result is what a host shows once a round is over.
type Result struct {
	Entry
	NewRecord bool
}

// Lines renders the game-over summary.
func (r Result) Lines() []string {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Survived: %ds", r.Time),
		fmt.Sprintf("Near misses: %d", r.NearMisses),
		fmt.Sprintf("Score: %d", r.Score),
	}
	if r.NewRecord {
		lines = append(lines, "", "NEW HIGH SCORE!")
	}
	return lines
}

var medals = []string{"🥇", "🥈", "🥉"}

// Rank returns the leaderboard prefix for a 0-based position.
func Rank(i int) string {
	if i < len(medals) {
		return medals[i] + " "
	}
	return strconv.Itoa(i+1) + ". "
}

// Format renders one leaderboard line for a 0-based position.
func Format(i int, e Entry) string {
	return fmt.Sprintf("%sScore: %d | %ds | ⚠%d", Rank(i), e.Score, e.Time, e.NearMisses)
}
