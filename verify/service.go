// Package verify implements the verification token lifecycle: issuing a
// token for a Discord member, redeeming it through the two-step web flow, and
// reporting redeemed tokens to the admin.
package verify

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/ray1047820-bit/discord-auth-bot/autherror"
	"github.com/ray1047820-bit/discord-auth-bot/metrics"
	"github.com/ray1047820-bit/discord-auth-bot/models"
)

// tokenBytes gives 128 bits of entropy, same space as the original
// secrets.token_urlsafe(16) links.
const tokenBytes = 16

// maxIssueAttempts bounds regeneration on a duplicate token value. Hitting
// the cap on a 128-bit space means the random source is broken, not that we
// are unlucky.
const maxIssueAttempts = 5

type Service struct {
	db      *bun.DB
	logger  *slog.Logger
	granter RoleGranter
	adminID string

	newToken func() (string, error)
}

func NewService(db *bun.DB, logger *slog.Logger, granter RoleGranter, adminID string) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		granter:  granter,
		adminID:  adminID,
		newToken: generateToken,
	}
}

// Issue creates a single-use token bound to discordID and returns the token
// value for embedding in a verification link. Duplicate token values are
// regenerated internally and never surface.
func (s *Service) Issue(ctx context.Context, discordID string) (string, error) {
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return "", err
		}

		_, err = models.CreateToken(ctx, s.db, token, discordID, time.Now().UTC())
		if err == nil {
			metrics.TokensIssued.Inc()
			s.logger.Info("issued verification token", "discord_id", discordID)
			return token, nil
		}
		if !errors.Is(err, autherror.ErrDuplicateToken) {
			return "", err
		}

		s.logger.Warn("token value collision, regenerating", "attempt", attempt)
	}

	return "", errors.Errorf("no unique token after %d attempts", maxIssueAttempts)
}

// Inspect reports whether a token can still be redeemed, without touching
// state, so the confirmation page is safe to reload. Returns the Discord id
// the token is bound to, autherror.ErrTokenNotFound, or autherror.ErrTokenUsed.
func (s *Service) Inspect(ctx context.Context, token string) (string, error) {
	vt, err := models.TokenByValue(ctx, s.db, token)
	if err != nil {
		return "", err
	}
	if vt.Used {
		return "", autherror.ErrTokenUsed
	}
	return vt.DiscordID, nil
}

// Complete redeems a token: it marks the row used first and only then calls
// the role granter, so at most one caller ever reaches the grant. A rejected
// grant leaves the token consumed; there is deliberately no compensation or
// retry, matching the behavior this bot has always had.
func (s *Service) Complete(ctx context.Context, token, sourceIP string) (string, error) {
	vt, err := models.TokenByValue(ctx, s.db, token)
	if err != nil {
		s.countRedemptionFailure(err)
		return "", err
	}

	if err := models.MarkUsed(ctx, s.db, token, time.Now().UTC(), sourceIP); err != nil {
		s.countRedemptionFailure(err)
		return "", err
	}

	if err := s.granter.Grant(ctx, vt.DiscordID); err != nil {
		// A grant the API rejected and one that never got an answer are
		// different operational signals.
		var rejected *autherror.GrantRejectedError
		if errors.As(err, &rejected) {
			metrics.Redemptions.WithLabelValues(metrics.OutcomeGrantRejected).Inc()
		} else {
			metrics.Redemptions.WithLabelValues(metrics.OutcomeGrantError).Inc()
		}
		s.logger.Error("role grant failed after token was consumed",
			"discord_id", vt.DiscordID, "ip", sourceIP, "err", err)
		return "", err
	}

	metrics.Redemptions.WithLabelValues(metrics.OutcomeGranted).Inc()
	s.logger.Info("verification complete", "discord_id", vt.DiscordID, "ip", sourceIP)
	return vt.DiscordID, nil
}

// Report returns every redeemed token for the admin. Anyone else gets
// autherror.ErrUnauthorized and no detail beyond that.
func (s *Service) Report(ctx context.Context, requesterID string) ([]models.VerificationToken, error) {
	if requesterID != s.adminID {
		return nil, autherror.ErrUnauthorized
	}
	return models.UsedTokens(ctx, s.db)
}

func (s *Service) countRedemptionFailure(err error) {
	switch {
	case errors.Is(err, autherror.ErrTokenUsed):
		metrics.Redemptions.WithLabelValues(metrics.OutcomeAlreadyUsed).Inc()
	case errors.Is(err, autherror.ErrTokenNotFound):
		metrics.Redemptions.WithLabelValues(metrics.OutcomeNotFound).Inc()
	}
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "could not read random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
