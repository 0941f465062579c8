package twitch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/streamlot/giveabot/internal/models"
	"github.com/streamlot/giveabot/internal/services/giveaway"
)

// Chat messages are capped well under the IRC limit so the luck listing
// never gets the bot dropped by the server
const maxScoreboardChars = 200

// formatScoreboard renders "name luck" pairs for everyone holding luck,
// truncated to fit a single chat line
func formatScoreboard(records []*models.UserRecord) string {
	pairs := make([]string, 0, len(records))
	for _, record := range records {
		if record.Luck <= 0 {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s %d", record.Name, record.Luck))
	}

	line := strings.Join(pairs, " ")
	if len(line) > maxScoreboardChars {
		line = truncateRunes(line, maxScoreboardChars) + "..."
	}
	return line
}

// truncateRunes cuts at most max bytes off the front of s without splitting
// a multi-byte rune at the boundary.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// formatStats renders one user's standing for the draw
func formatStats(name string, stats *giveaway.UserStatsOutput) string {
	return fmt.Sprintf("@%s luck +%d%% | tier +%d%% | entries %d | rounds since win %d",
		name, stats.LuckPercent, stats.TierPercent, stats.LifetimeEntries, stats.RoundsSinceWin)
}
