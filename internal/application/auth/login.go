package auth

import (
	"context"

	"github.com/baechuer/notepad-service/internal/domain"
)

// Login verifies credentials and issues a bearer token.
// Unknown email and wrong password are reported as different errors.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = domain.NormalizeEmail(email)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return LoginResult{}, domain.ErrMissingFields(missing...)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("user.login_failed", map[string]string{"user_id": u.ID})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	token, err := s.signer.SignAccessToken(u.ID, s.tokenTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	s.audit("user.login", map[string]string{"user_id": u.ID})

	return LoginResult{
		User:      u,
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}
