package twitch

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/streamlot/giveabot/internal/models"
	"github.com/streamlot/giveabot/internal/services/giveaway"
	"github.com/stretchr/testify/assert"
)

func TestFormatScoreboardSkipsZeroLuck(t *testing.T) {
	records := []*models.UserRecord{
		{Name: "alice", Luck: 30},
		{Name: "bob", Luck: 0},
		{Name: "carol", Luck: 10},
	}

	assert.Equal(t, "alice 30 carol 10", formatScoreboard(records))
}

func TestFormatScoreboardTruncatesLongListings(t *testing.T) {
	records := make([]*models.UserRecord, 0, 40)
	for i := 0; i < 40; i++ {
		records = append(records, &models.UserRecord{
			Name: "user" + strings.Repeat("x", 10),
			Luck: 100,
		})
	}

	line := formatScoreboard(records)
	assert.True(t, strings.HasSuffix(line, "..."))
	assert.LessOrEqual(t, len(line), maxScoreboardChars+3)
}

func TestFormatScoreboardTruncatesOnRuneBoundary(t *testing.T) {
	// Pad so the cut point lands inside the multi-byte name
	records := []*models.UserRecord{
		{Name: strings.Repeat("a", maxScoreboardChars-6), Luck: 1},
		{Name: strings.Repeat("ü", 10), Luck: 1},
	}

	line := formatScoreboard(records)
	assert.True(t, strings.HasSuffix(line, "..."))
	assert.True(t, utf8.ValidString(line))
	assert.LessOrEqual(t, len(line), maxScoreboardChars+3)
}

func TestFormatStats(t *testing.T) {
	line := formatStats("alice", &giveaway.UserStatsOutput{
		LuckPercent:     25,
		TierPercent:     30,
		LifetimeEntries: 12,
		RoundsSinceWin:  4,
	})

	assert.Equal(t, "@alice luck +25% | tier +30% | entries 12 | rounds since win 4", line)
}
