package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/ray1047820-bit/discord-auth-bot/autherror"
)

// RoleGranter performs the external privilege grant for a verified member.
type RoleGranter interface {
	Grant(ctx context.Context, discordID string) error
}

const discordAPIBase = "https://discord.com/api/v10"

// DiscordRoleGranter assigns the configured guild role through the Discord
// REST API, the same PUT the bot has always issued:
// PUT /guilds/{guild}/members/{member}/roles/{role}, 204 on success.
type DiscordRoleGranter struct {
	client   *http.Client
	apiBase  string
	botToken string
	guildID  string
	roleID   string
}

func NewDiscordRoleGranter(botToken, guildID, roleID string) *DiscordRoleGranter {
	return &DiscordRoleGranter{
		client:   &http.Client{Timeout: 10 * time.Second},
		apiBase:  discordAPIBase,
		botToken: botToken,
		guildID:  guildID,
		roleID:   roleID,
	}
}

func (g *DiscordRoleGranter) Grant(ctx context.Context, discordID string) error {
	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", g.apiBase, g.guildID, discordID, g.roleID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return errors.Wrap(err, "could not build role grant request")
	}
	req.Header.Set("Authorization", "Bot "+g.botToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "role grant request failed")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return &autherror.GrantRejectedError{StatusCode: resp.StatusCode}
	}

	return nil
}
