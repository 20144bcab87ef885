package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/message-service/internal/models"
	"github.com/Dan9191/message-service/internal/repository"
	"github.com/Dan9191/message-service/internal/validation"
)

// ErrInvalidCredentials is the only rejection the Authenticator reports.
// The failing step is intentionally not recorded.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// schemePrefixLen is the length of "Bearer " in characters. The prefix is cut by length,
// its content is not checked.
const schemePrefixLen = 7

// UserFinder resolves a claimed email to a stored user.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticator turns an Authorization header value into a user.
type Authenticator struct {
	codec *TokenCodec
	users UserFinder
}

func NewAuthenticator(codec *TokenCodec, users UserFinder) *Authenticator {
	return &Authenticator{codec: codec, users: users}
}

// Authenticate resolves header to the user it was issued for. Every
// credential problem yields ErrInvalidCredentials; a storage failure is
// returned wrapped so it can be told apart from a rejection.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*models.User, error) {
	chars := []rune(header)
	if len(chars) < schemePrefixLen {
		return nil, ErrInvalidCredentials
	}

	claims, err := a.codec.Decode(string(chars[schemePrefixLen:]))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	raw := claims[claimEmail]
	if invalid, _ := validation.IsInvalidClaim(raw); invalid {
		return nil, ErrInvalidCredentials
	}

	user, err := a.users.FindUserByEmail(ctx, raw.(string))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token owner: %w", err)
	}
	return user, nil
}
