package auth

import (
	"time"

	"github.com/baechuer/notepad-service/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	tokenTTL time.Duration
	now      func() time.Time
	audit    func(action string, fields map[string]string)
}

type Config struct {
	TokenTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		pub:      pub,
		tokenTTL: ttl,
		now:      time.Now,
		audit:    func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// TokenTTL is the lifetime of tokens issued by Login.
func (s *Service) TokenTTL() time.Duration { return s.tokenTTL }

type RegisterCmd struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type LoginResult struct {
	User      domain.User
	Token     string
	ExpiresIn int64 // seconds
}
