package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"captioncraft/internal/domain/profile"
	"captioncraft/internal/domain/session"
	"captioncraft/internal/infrastructure/crm"
	"captioncraft/internal/pkg/besteffort"
	"captioncraft/internal/pkg/jwt"
	"captioncraft/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")
)

// ProfileInput carries the business fields collected at sign-up.
// FirstName and LastName are forwarded to the CRM only.
type ProfileInput struct {
	Email               string
	Phone               string
	FirstName           string
	LastName            string
	BusinessName        string
	BusinessType        string
	CustomBusinessType  string
	BusinessDescription string
}

type RegisterInput struct {
	ProfileInput
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// Token is an issued access token bound to a session marker.
type Token struct {
	AccessToken string
	SessionID   uuid.UUID
	ExpiresAt   time.Time
}

type taskRunner interface {
	Go(parent context.Context, name string, task besteffort.Task)
}

type Service struct {
	profiles profile.Repository
	sessions session.Store
	tokens   jwt.Service
	contacts crm.ContactSyncer
	runner   taskRunner
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the auth flows. contacts may be nil, in which case no CRM sync happens.
func NewService(profiles profile.Repository, sessions session.Store, tokens jwt.Service, contacts crm.ContactSyncer, runner taskRunner, log *zap.Logger) *Service {
	return &Service{
		profiles: profiles,
		sessions: sessions,
		tokens:   tokens,
		contacts: contacts,
		runner:   runner,
		logger:   logger.OrNop(log),
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (profile.Profile, Token, error) {
	username := strings.TrimSpace(in.Username)
	v := validateProfile(in.ProfileInput)
	if !usernameRe.MatchString(username) {
		v.add("username", "must be 3-32 characters of letters, digits, '_', '.' or '-'")
	}
	if len(in.Password) < minPasswordLen {
		v.add("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if err := v.err(); err != nil {
		return profile.Profile{}, Token{}, err
	}

	exists, err := s.profiles.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("failed to check username", zap.Error(err))
		return profile.Profile{}, Token{}, ErrInternal
	}
	if exists {
		return profile.Profile{}, Token{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return profile.Profile{}, Token{}, ErrInternal
	}

	p := newProfile(in.ProfileInput, s.now())
	p.Username = &username
	p.PasswordHash = string(hash)

	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, profile.ErrDuplicateName) {
			return profile.Profile{}, Token{}, ErrUsernameTaken
		}
		s.logger.Error("failed to create profile", zap.Error(err))
		return profile.Profile{}, Token{}, ErrInternal
	}

	tok, err := s.openSession(ctx, p.ID)
	if err != nil {
		s.discardProfile(ctx, p.ID)
		return profile.Profile{}, Token{}, err
	}

	s.syncContact(ctx, p, in.ProfileInput)
	s.logger.Info("profile registered", zap.String("profile_id", p.ID.String()))

	return sanitize(p), tok, nil
}

// StartGuest creates a profile without credentials and opens a session for it.
func (s *Service) StartGuest(ctx context.Context, in ProfileInput) (profile.Profile, Token, error) {
	if err := validateProfile(in).err(); err != nil {
		return profile.Profile{}, Token{}, err
	}

	p := newProfile(in, s.now())
	if err := s.profiles.Create(ctx, p); err != nil {
		s.logger.Error("failed to create guest profile", zap.Error(err))
		return profile.Profile{}, Token{}, ErrInternal
	}

	tok, err := s.openSession(ctx, p.ID)
	if err != nil {
		s.discardProfile(ctx, p.ID)
		return profile.Profile{}, Token{}, err
	}

	s.syncContact(ctx, p, in)
	return sanitize(p), tok, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (profile.Profile, Token, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return profile.Profile{}, Token{}, ErrInvalidCredentials
	}

	p, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, Token{}, ErrInvalidCredentials
		}
		s.logger.Error("failed to load profile", zap.Error(err))
		return profile.Profile{}, Token{}, ErrInternal
	}
	if p.PasswordHash == "" {
		return profile.Profile{}, Token{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)); err != nil {
		return profile.Profile{}, Token{}, ErrInvalidCredentials
	}

	tok, err := s.openSession(ctx, p.ID)
	if err != nil {
		return profile.Profile{}, Token{}, err
	}
	return sanitize(p), tok, nil
}

// Logout removes the session marker. Profile, credentials and history stay.
func (s *Service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Close(ctx, sessionID); err != nil {
		s.logger.Error("failed to close session", zap.String("session_id", sessionID.String()), zap.Error(err))
		return ErrInternal
	}
	return nil
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (session.Session, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return session.Session{}, ErrUnauthorized
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, ErrUnauthorized
		}
		s.logger.Error("failed to load session", zap.Error(err))
		return session.Session{}, ErrInternal
	}
	if sess.ProfileID != claims.ProfileID {
		return session.Session{}, ErrUnauthorized
	}
	return sess, nil
}

func (s *Service) Profile(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrUnauthorized
		}
		return profile.Profile{}, ErrInternal
	}
	return sanitize(p), nil
}

func (s *Service) openSession(ctx context.Context, profileID uuid.UUID) (Token, error) {
	sessionID := uuid.New()
	access, exp, err := s.tokens.Issue(profileID, sessionID)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		return Token{}, ErrInternal
	}

	err = s.sessions.Open(ctx, session.Session{
		ID:        sessionID,
		ProfileID: profileID,
		CreatedAt: s.now().UTC(),
		ExpiresAt: exp,
	})
	if err != nil {
		s.logger.Error("failed to open session", zap.Error(err))
		return Token{}, ErrInternal
	}

	return Token{AccessToken: access, SessionID: sessionID, ExpiresAt: exp}, nil
}

// discardProfile removes a profile whose first session could not be opened, so the username
// stays free for a retry.
func (s *Service) discardProfile(ctx context.Context, id uuid.UUID) {
	if err := s.profiles.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Error("failed to discard profile", zap.String("profile_id", id.String()), zap.Error(err))
	}
}

func (s *Service) syncContact(ctx context.Context, p profile.Profile, in ProfileInput) {
	if s.contacts == nil || s.runner == nil {
		return
	}
	c := crm.Contact{
		Email:               p.Email,
		Phone:               p.Phone,
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		BusinessName:        p.BusinessName,
		BusinessType:        p.BusinessType,
		BusinessDescription: p.BusinessDescription,
	}
	s.runner.Go(ctx, "crm.sync_contact", func(ctx context.Context) error {
		return s.contacts.SyncContact(ctx, c)
	})
}

func newProfile(in ProfileInput, now time.Time) profile.Profile {
	now = now.UTC()
	return profile.Profile{
		ID:                  uuid.New(),
		Email:               strings.TrimSpace(in.Email),
		Phone:               strings.TrimSpace(in.Phone),
		BusinessName:        strings.TrimSpace(in.BusinessName),
		BusinessType:        resolveBusinessType(in.BusinessType, in.CustomBusinessType),
		BusinessDescription: strings.TrimSpace(in.BusinessDescription),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func resolveBusinessType(selected, custom string) string {
	selected = strings.TrimSpace(selected)
	if selected == profile.BusinessTypeOther {
		if c := strings.TrimSpace(custom); c != "" {
			return c
		}
	}
	return selected
}

func sanitize(p profile.Profile) profile.Profile {
	p.PasswordHash = ""
	return p
}
