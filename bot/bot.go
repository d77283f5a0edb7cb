// Package bot is the Discord-facing side: prefix commands for requesting a
// verification link and for the admin's list of verified members.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/ray1047820-bit/discord-auth-bot/autherror"
	"github.com/ray1047820-bit/discord-auth-bot/config"
	"github.com/ray1047820-bit/discord-auth-bot/verify"
)

const commandTimeout = 10 * time.Second

type Bot struct {
	session *discordgo.Session
	svc     *verify.Service
	logger  *slog.Logger
	prefix  string
	baseURL string
}

func New(conf *config.DiscordConfig, baseURL string, svc *verify.Service, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + conf.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "could not create discord session")
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		svc:     svc,
		logger:  logger,
		prefix:  conf.Prefix,
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)

	return b, nil
}

func (b *Bot) Start() error {
	return errors.Wrap(b.session.Open(), "could not open discord gateway")
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("bot ready", "user", r.User.Username)
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.prefix))
	if len(fields) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch fields[0] {
	case "verify":
		b.handleVerify(ctx, s, m)
	case "verified":
		b.handleVerified(ctx, s, m)
	}
}

// handleVerify issues a token for the author and replies with a link button
// to the redemption page.
func (b *Bot) handleVerify(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	token, err := b.svc.Issue(ctx, m.Author.ID)
	if err != nil {
		b.logger.Error("could not issue token", "discord_id", m.Author.ID, "err", err)
		b.reply(s, m, "Something went wrong, try again later.")
		return
	}

	link := fmt.Sprintf("%s/verify?token=%s", b.baseURL, token)

	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("%s press the button below to verify.", m.Author.Mention()),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label: "Verify",
						Style: discordgo.LinkButton,
						URL:   link,
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Error("could not send verification link", "discord_id", m.Author.ID, "err", err)
	}
}

func (b *Bot) handleVerified(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	rows, err := b.svc.Report(ctx, m.Author.ID)
	if err != nil {
		if errors.Is(err, autherror.ErrUnauthorized) {
			b.reply(s, m, "❌ You are not allowed to do that.")
			return
		}
		b.logger.Error("could not build report", "discord_id", m.Author.ID, "err", err)
		b.reply(s, m, "Something went wrong, try again later.")
		return
	}

	b.reply(s, m, FormatReport(rows))
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		b.logger.Error("could not send reply", "channel", m.ChannelID, "err", err)
	}
}
