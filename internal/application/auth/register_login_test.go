package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baechuer/notepad-service/internal/domain"
)

func validRegister() RegisterCmd {
	return RegisterCmd{Name: "A", Email: "a@x.com", Phone: "1", Password: "p"}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	cases := []RegisterCmd{
		{Email: "a@x.com", Phone: "1", Password: "p"},
		{Name: "A", Phone: "1", Password: "p"},
		{Name: "A", Email: "a@x.com", Password: "p"},
		{Name: "A", Email: "a@x.com", Phone: "1"},
		{Name: "  ", Email: " ", Phone: "1", Password: "p"},
	}
	for _, cmd := range cases {
		_, err := svc.Register(context.Background(), cmd)
		requireDomainCode(t, err, "missing_field")
	}
}

func TestRegister_Success_HashesPasswordAndPublishes(t *testing.T) {
	t.Parallel()

	svc, users, _, _, pub, audits := newSvcForTest(t)

	u, err := svc.Register(context.Background(), RegisterCmd{
		Name: " A ", Email: " A@X.com ", Phone: "1", Password: "p",
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected id assigned by store")
	}
	stored := users.byID[u.ID]
	if stored.Email != "a@x.com" || stored.Name != "A" {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
	if stored.PasswordHash == "p" || stored.PasswordHash != "hashed:p" {
		t.Fatalf("password must be hashed, got %q", stored.PasswordHash)
	}
	if len(pub.events) != 1 || pub.events[0].UserID != u.ID {
		t.Fatalf("expected one user.registered event, got %+v", pub.events)
	}
	if len(*audits) != 1 || (*audits)[0].action != "user.register" {
		t.Fatalf("unexpected audits: %+v", *audits)
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dup := validRegister()
	dup.Email = "A@x.com"
	_, err := svc.Register(context.Background(), dup)
	requireDomainCode(t, err, "email_already_exists")
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict kind, got %v", domain.KindOf(err))
	}
}

func TestRegister_StoreRaceConflict_Propagates(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.createErr = domain.ErrEmailAlreadyExists()

	_, err := svc.Register(context.Background(), validRegister())
	requireDomainCode(t, err, "email_already_exists")
}

func TestRegister_LookupFailure_ReturnsStoreError(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	users.getByEmailErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Register(context.Background(), validRegister())
	requireDomainCode(t, err, "db_unavailable")
}

func TestRegister_HashFail_ReturnsHashFailed(t *testing.T) {
	t.Parallel()

	svc, _, hasher, _, _, _ := newSvcForTest(t)
	hasher.hashFn = func(string) (string, error) { return "", errors.New("boom") }

	_, err := svc.Register(context.Background(), validRegister())
	requireDomainCode(t, err, "hash_failed")
}

func TestRegister_PublishFailure_DoesNotFail(t *testing.T) {
	t.Parallel()

	svc, _, _, _, pub, _ := newSvcForTest(t)
	pub.err = errors.New("broker down")

	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRegister_NilPublisher(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, nil, Config{})
	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "", "p")
	requireDomainCode(t, err, "missing_field")
	_, err = svc.Login(context.Background(), "a@x.com", "")
	requireDomainCode(t, err, "missing_field")
}

func TestLogin_UnknownEmail_UserNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "missing@x.com", "p")
	requireDomainCode(t, err, "user_not_found")
}

func TestLogin_WrongPassword_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, audits := newSvcForTest(t)
	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	requireDomainCode(t, err, "invalid_credentials")
	last := (*audits)[len(*audits)-1]
	if last.action != "user.login_failed" {
		t.Fatalf("expected login_failed audit, got %+v", last)
	}
}

func TestLogin_Success_TokenCarriesUserID(t *testing.T) {
	t.Parallel()

	svc, _, _, signer, _, _ := newSvcForTest(t)
	u, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(context.Background(), " A@X.COM", "p")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.ID != u.ID {
		t.Fatalf("expected user %q, got %q", u.ID, res.User.ID)
	}
	claims, err := signer.VerifyAccessToken(res.Token)
	if err != nil || claims.UserID != u.ID {
		t.Fatalf("token must embed user id: claims=%+v err=%v", claims, err)
	}
	if signer.lastTTL != 24*time.Hour || res.ExpiresIn != int64((24*time.Hour).Seconds()) {
		t.Fatalf("unexpected ttl: %v / %d", signer.lastTTL, res.ExpiresIn)
	}
}

func TestLogin_SignFailure(t *testing.T) {
	t.Parallel()

	svc, _, _, signer, _, _ := newSvcForTest(t)
	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("register: %v", err)
	}
	signer.signErr = errors.New("no key")

	_, err := svc.Login(context.Background(), "a@x.com", "p")
	requireDomainCode(t, err, "token_sign_failed")
}

func TestNewService_DefaultTTL(t *testing.T) {
	svc := NewService(newFakeUserRepo(), &fakeHasher{}, &fakeSigner{}, nil, Config{})
	if svc.TokenTTL() != 24*time.Hour {
		t.Fatalf("expected 24h default, got %v", svc.TokenTTL())
	}
}
