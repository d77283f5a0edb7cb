package bot

import (
	"fmt"
	"strings"

	"github.com/ray1047820-bit/discord-auth-bot/models"
)

// FormatReport renders redeemed tokens as one mention per line for the admin
// command reply.
func FormatReport(rows []models.VerificationToken) string {
	if len(rows) == 0 {
		return "No verification records."
	}

	var sb strings.Builder
	sb.WriteString("✅ Verified users:\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "<@%s> - %s\n", row.DiscordID, row.SourceIP)
	}
	return strings.TrimRight(sb.String(), "\n")
}
