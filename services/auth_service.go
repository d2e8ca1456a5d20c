package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"hors-serie-api/domain"
	"hors-serie-api/repositories"
	"hors-serie-api/utils"
)

// DefaultSessionTTL es la vida absoluta de una sesión
const DefaultSessionTTL = 24 * time.Hour

// LoginResult es lo que devuelve un login exitoso.
// Token va en la cookie de sesión.
type LoginResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService define el control de acceso al panel de administración
type AuthService interface {
	ValidateCredentials(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (domain.User, error)
}

// AuthOptions configura el AuthService
type AuthOptions struct {
	SessionTTL time.Duration
	Now        func() time.Time
	NewID      func() string
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	signer   *utils.TokenSigner
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
	log      logrus.FieldLogger
}

// NewAuthService crea una nueva instancia de AuthService
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, signer *utils.TokenSigner, opts AuthOptions, log logrus.FieldLogger) AuthService {
	s := &authService{
		users:    users,
		sessions: sessions,
		signer:   signer,
		ttl:      opts.SessionTTL,
		now:      opts.Now,
		newID:    opts.NewID,
		log:      log,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// ValidateCredentials busca el usuario y compara el password con bcrypt.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (s *authService) ValidateCredentials(ctx context.Context, username, password string) (domain.User, error) {
	user, found, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("services: validate credentials: %w", err)
	}
	if !found {
		utils.CheckDummyPassword(password)
		return domain.User{}, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login valida las credenciales y abre una sesión nueva
func (s *authService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.WithField("username", username).Info("Failed login attempt")
		}
		return LoginResult{}, err
	}

	issuedAt := s.now().UTC()
	session := domain.Session{
		ID:        s.newID(),
		UserID:    user.ID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}

	token, err := s.signer.SignSession(session.ID, session.UserID, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		return LoginResult{}, fmt.Errorf("services: login: %w", err)
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("services: login: %w", err)
	}

	s.log.WithField("username", user.Username).Info("Admin logged in")
	return LoginResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Logout destruye la sesión del token. Un token vacío o inválido no es un error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionID, err := s.signer.SessionIDFromToken(token)
	if err != nil || sessionID == "" {
		return nil
	}

	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("services: logout: %w", err)
	}
	return nil
}

// Resolve devuelve el usuario de la sesión. El usuario se vuelve a buscar en
// cada request: si fue eliminado la sesión deja de valer.
func (s *authService) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrAuthRequired
	}

	sessionID, err := s.signer.ParseSession(token)
	if err != nil {
		return domain.User{}, ErrAuthRequired
	}

	session, found, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return domain.User{}, fmt.Errorf("services: resolve session: %w", err)
	}
	if !found {
		return domain.User{}, ErrAuthRequired
	}
	if session.Expired(s.now()) {
		s.dropSession(ctx, session.ID)
		return domain.User{}, ErrAuthRequired
	}

	user, found, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return domain.User{}, fmt.Errorf("services: resolve session: %w", err)
	}
	if !found {
		s.dropSession(ctx, session.ID)
		return domain.User{}, ErrAuthRequired
	}
	return user, nil
}

func (s *authService) dropSession(ctx context.Context, sessionID string) {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.log.WithError(err).Warn("Failed to delete stale session")
	}
}
