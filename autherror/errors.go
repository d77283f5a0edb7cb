package autherror

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateToken means a freshly generated token value collided with an
	// existing row. Issuance recovers by regenerating; this never reaches a user.
	ErrDuplicateToken = errors.New("token value already exists")

	// ErrTokenNotFound means no row exists for the presented token.
	ErrTokenNotFound = errors.New("no such token")

	// ErrTokenUsed means the token was already redeemed, either earlier or by a
	// concurrent redemption that won the race.
	ErrTokenUsed = errors.New("token already used")

	ErrUnauthorized = errors.New("not authorized")
)

// GrantRejectedError carries the status code Discord answered a role grant
// with. By the time this error occurs the token is already consumed.
type GrantRejectedError struct {
	StatusCode int
}

func (e *GrantRejectedError) Error() string {
	return fmt.Sprintf("role grant rejected with status %d", e.StatusCode)
}

func FetchingToken(err error, token string) error {
	return errors.Wrapf(err, "could not fetch token %s", token)
}
