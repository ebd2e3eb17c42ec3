package auth

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/baechuer/notepad-service/internal/domain"
)

// Register creates an account. It does not log the user in; callers
// obtain a token through Login.
func (s *Service) Register(ctx context.Context, cmd RegisterCmd) (domain.User, error) {
	name := strings.TrimSpace(cmd.Name)
	email := domain.NormalizeEmail(cmd.Email)
	phone := strings.TrimSpace(cmd.Phone)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if cmd.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return domain.User{}, domain.ErrMissingFields(missing...)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	} else if !domain.Is(err, "user_not_found") {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	// The store still enforces uniqueness for concurrent registrations.
	created, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user.register", map[string]string{"user_id": created.ID})

	if s.pub != nil {
		evt := UserRegisteredEvent{
			UserID:     created.ID,
			Email:      created.Email,
			Name:       created.Name,
			OccurredAt: s.now().UTC(),
		}
		if err := s.pub.PublishUserRegistered(ctx, evt); err != nil {
			log.Warn().Err(err).Str("user_id", created.ID).Msg("publish user.registered failed")
		}
	}

	return created, nil
}
