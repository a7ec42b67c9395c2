package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
	"github.com/disbudpar-sulsel/tourism-data-backend/pkg/token"
)

var (
	// ErrBadCredentials is returned when the identity provider rejects
	// the email/password pair
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrSessionExpired is returned when a held access token no longer
	// resolves to an identity
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionInvalid is returned when an identity has no directory
	// entry (no assigned region)
	ErrSessionInvalid = errors.New("session invalid: no region assigned to this account")
)

// Session is the authenticated officer state handed to the client as a
// signed token.
type Session struct {
	Email        string
	Region       string
	SessionToken string
}

// SessionService implements login, token-based restoration and logout on
// top of the identity provider and the directory.
type SessionService struct {
	client    *supabase.Client
	directory *DirectoryService
	tokens    *token.Service
	logger    *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(client *supabase.Client, directory *DirectoryService, tokens *token.Service, logger *logrus.Logger) *SessionService {
	return &SessionService{
		client:    client,
		directory: directory,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login authenticates an officer and resolves their assigned region. The
// session is created only when both steps succeed.
func (s *SessionService) Login(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	accessToken, err := s.client.SignIn(email, password)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	// Verify the token resolves back to the identity it was issued for
	verifiedEmail, err := s.client.ResolveIdentity(accessToken)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	verifiedEmail = strings.ToLower(strings.TrimSpace(verifiedEmail))

	region, ok := s.directory.RegionForEmail(verifiedEmail)
	if !ok {
		return nil, ErrSessionInvalid
	}

	sessionToken, err := s.tokens.Generate(verifiedEmail, region, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email":  verifiedEmail,
		"region": region,
	}).Info("Officer logged in")

	return &Session{
		Email:        verifiedEmail,
		Region:       region,
		SessionToken: sessionToken,
	}, nil
}

// Restore rebuilds a session from a held upstream access token, for
// clients that kept the token across a restart. An unresolvable token
// yields ErrSessionExpired; a resolvable identity without a directory
// entry yields ErrSessionInvalid.
func (s *SessionService) Restore(accessToken string) (*Session, error) {
	email, err := s.client.ResolveIdentity(accessToken)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidToken) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	email = strings.ToLower(strings.TrimSpace(email))

	region, ok := s.directory.RegionForEmail(email)
	if !ok {
		return nil, ErrSessionInvalid
	}

	sessionToken, err := s.tokens.Generate(email, region, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email":  email,
		"region": region,
	}).Info("Session restored")

	return &Session{
		Email:        email,
		Region:       region,
		SessionToken: sessionToken,
	}, nil
}
