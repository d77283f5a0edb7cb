package models

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/ray1047820-bit/discord-auth-bot/autherror"
)

// VerificationToken is a single-use capability: an unguessable random string
// handed to a Discord member, redeemed once through the web flow to receive
// the verified role. Rows are never deleted; a used row doubles as the audit
// record for the admin report.
type VerificationToken struct {
	bun.BaseModel `bun:"table:verification_tokens"`

	Token     string     `bun:",pk,notnull"`
	DiscordID string     `bun:"discord_id,notnull"`
	CreatedAt time.Time  `bun:",nullzero,notnull,default:current_timestamp"`
	Used      bool       `bun:",notnull,default:false"`
	UsedAt    *time.Time `bun:",nullzero"`
	SourceIP  string     `bun:",nullzero"`
}

// CreateToken inserts a fresh unused token row. Returns
// autherror.ErrDuplicateToken when the token value already exists.
func CreateToken(ctx context.Context, db *bun.DB, token, discordID string, createdAt time.Time) (*VerificationToken, error) {
	vt := &VerificationToken{
		Token:     token,
		DiscordID: discordID,
		CreatedAt: createdAt,
	}

	res, err := db.NewInsert().Model(vt).Ignore().Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not create token")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "could not read insert result")
	}
	if n == 0 {
		return nil, autherror.ErrDuplicateToken
	}

	return vt, nil
}

// TokenByValue looks a token up by its primary key. Returns
// autherror.ErrTokenNotFound when no row exists.
func TokenByValue(ctx context.Context, db *bun.DB, token string) (*VerificationToken, error) {
	vt := new(VerificationToken)
	if err := db.NewSelect().Model(vt).Where("token = ?", token).Scan(ctx, vt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, autherror.ErrTokenNotFound
		}
		return nil, autherror.FetchingToken(err, token)
	}
	return vt, nil
}

// MarkUsed flips a token to used in one conditional update. The WHERE clause
// on used = false is what makes concurrent redemptions safe: the database
// lets exactly one updater through, every other caller sees zero rows
// affected and gets autherror.ErrTokenUsed (or ErrTokenNotFound if the token
// never existed).
func MarkUsed(ctx context.Context, db *bun.DB, token string, usedAt time.Time, sourceIP string) error {
	res, err := db.NewUpdate().
		Model((*VerificationToken)(nil)).
		Set("used = ?", true).
		Set("used_at = ?", usedAt).
		Set("source_ip = ?", sourceIP).
		Where("token = ?", token).
		Where("used = ?", false).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "could not mark token used")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "could not read update result")
	}
	if n == 0 {
		// Zero rows means we lost the race or the token never existed; a
		// second read tells the two apart.
		if _, err := TokenByValue(ctx, db, token); err != nil {
			return err
		}
		return autherror.ErrTokenUsed
	}

	return nil
}

// UsedTokens returns every redeemed token row, oldest redemption first.
func UsedTokens(ctx context.Context, db *bun.DB) ([]VerificationToken, error) {
	var tokens []VerificationToken
	err := db.NewSelect().
		Model(&tokens).
		Where("used = ?", true).
		Order("used_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list used tokens")
	}
	return tokens, nil
}
