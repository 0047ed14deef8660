package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/astrotrack/astrotrack/internal/infra/docstore"
	"github.com/astrotrack/astrotrack/internal/infra/identity"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/repo"
	"github.com/astrotrack/astrotrack/internal/pkg/utils/tokens"
	"go.uber.org/zap"
)

// AuthService exchanges identity-provider tokens for opaque session tokens
// and resolves session tokens back to users.
type AuthService interface {
	Login(ctx context.Context, idToken string) (*LoginOutput, error)
	Logout(ctx context.Context, sessionToken string) error
	ClearExpired(ctx context.Context) (int, error)
	// Resolve returns ErrUnauthenticated for a missing, unknown or expired
	// token and any other error for infrastructure failures.
	Resolve(ctx context.Context, sessionToken string) (*model.User, error)
	SessionMaxAge() time.Duration
}

type LoginOutput struct {
	Token     string      `json:"-"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type authService struct {
	sessions repo.AuthSessionRepo
	users    UserService
	verifier identity.Verifier
	cfg      config.AuthConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(sessions repo.AuthSessionRepo, users UserService, verifier identity.Verifier, cfg config.AuthConfig, log *zap.Logger) AuthService {
	return &authService{
		sessions: sessions,
		users:    users,
		verifier: verifier,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) SessionMaxAge() time.Duration { return s.cfg.SessionMaxAge() }

func (s *authService) Login(ctx context.Context, idToken string) (*LoginOutput, error) {
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			s.log.Info("identity token rejected", zap.String("provider", s.verifier.Provider()), zap.Error(err))
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("verify identity token: %w", err)
	}

	u, err := s.users.EnsureUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	token, secret, err := tokens.NewToken(s.cfg.TokenPrefix)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	expiresAt := s.now().Add(s.SessionMaxAge())
	err = s.sessions.Create(ctx, &model.AuthSession{
		ID:          tokens.HMAC256Hex(s.cfg.SecretPepper, secret),
		UserID:      u.ID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Provider:    id.Provider,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &LoginOutput{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Logout is idempotent: unknown tokens are ignored.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	secret, ok := tokens.ParseToken(sessionToken, s.cfg.TokenPrefix)
	if !ok {
		return nil
	}
	return s.sessions.Delete(ctx, tokens.HMAC256Hex(s.cfg.SecretPepper, secret))
}

func (s *authService) ClearExpired(ctx context.Context) (int, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("cleared expired sessions", zap.Int("count", n))
	}
	return n, nil
}

func (s *authService) Resolve(ctx context.Context, sessionToken string) (*model.User, error) {
	secret, ok := tokens.ParseToken(sessionToken, s.cfg.TokenPrefix)
	if !ok {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, tokens.HMAC256Hex(s.cfg.SecretPepper, secret))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, ErrUnauthenticated
	}
	return s.users.EnsureUser(ctx, &identity.Identity{
		Subject:     sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		PhotoURL:    sess.PhotoURL,
		Provider:    sess.Provider,
	})
}
