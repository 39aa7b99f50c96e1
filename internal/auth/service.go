package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pcbuilderguide/pcbg/internal/apperr"
	"github.com/pcbuilderguide/pcbg/internal/metrics"
	"github.com/pcbuilderguide/pcbg/internal/models"
	"github.com/pcbuilderguide/pcbg/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

const (
	adminEmail     = "admin@pcbuilderguide.com"
	adminFirstName = "Admin"
	adminLastName  = "User"
)

// UserStore is the part of the credential store the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
}

// Service handles signup, login and identity resolution.
type Service struct {
	users         UserStore
	tokens        *TokenManager
	adminPassword string
	cost          int
}

// NewService wires the service. An empty adminPassword disables the Admin login path.
func NewService(users UserStore, tokens *TokenManager, adminPassword string) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		adminPassword: adminPassword,
		cost:          BcryptCost,
	}
}

type SignupInput struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on successful login. Admin marks the Admin login path.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.PublicUser
	Admin     bool
}

// Signup validates the input, rejects taken usernames and stores a bcrypt hash.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.PublicUser, error) {
	if err := validation.Struct(in); err != nil {
		return models.PublicUser{}, err
	}
	// min=8 counts characters; bcrypt's limit is in bytes.
	if len(in.Password) > MaxPasswordBytes {
		return models.PublicUser{}, apperr.Invalid("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	// The admin identity is provisioned by the server only.
	if models.IsAdmin(in.Username) {
		return models.PublicUser{}, apperr.ErrUsernameTaken
	}

	_, err := s.users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return models.PublicUser{}, apperr.ErrUsernameTaken
	case !errors.Is(err, apperr.ErrNotFound):
		return models.PublicUser{}, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return models.PublicUser{}, err
	}

	user, err := s.users.Create(ctx, models.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    optional(in.FirstName),
		LastName:     optional(in.LastName),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			return models.PublicUser{}, err
		}
		return models.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	metrics.IncSignup()
	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user.Public(), nil
}

// Login checks credentials and issues a token. Unknown usernames and wrong
// passwords both yield apperr.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if err := validation.Struct(in); err != nil {
		return LoginResult{}, err
	}

	if s.isAdminLogin(in) {
		user, err := s.ensureAdmin(ctx)
		if err != nil {
			return LoginResult{}, err
		}
		res, err := s.issue(user)
		if err != nil {
			return LoginResult{}, err
		}
		res.Admin = true
		metrics.IncLogin("admin")
		slog.InfoContext(ctx, "admin login", "user_id", user.ID)
		return res, nil
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return LoginResult{}, fmt.Errorf("lookup username: %w", err)
		}
		// Burn the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		metrics.IncLogin("failure")
		slog.DebugContext(ctx, "login failed", "reason", "unknown user")
		return LoginResult{}, apperr.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		metrics.IncLogin("failure")
		slog.DebugContext(ctx, "login failed", "reason", "password mismatch", "user_id", user.ID)
		return LoginResult{}, apperr.ErrInvalidCredentials
	}

	res, err := s.issue(user)
	if err != nil {
		return LoginResult{}, err
	}
	metrics.IncLogin("success")
	return res, nil
}

// CurrentUser resolves a verified identity to its public user record.
func (s *Service) CurrentUser(ctx context.Context, id Identity) (models.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.PublicUser{}, err
		}
		return models.PublicUser{}, fmt.Errorf("get user %d: %w", id.ID, err)
	}
	return user.Public(), nil
}

// VerifyToken resolves a bearer token to an identity.
func (s *Service) VerifyToken(token string) (Identity, error) {
	return s.tokens.Verify(token)
}

// EnsureAdmin provisions the Admin account if it does not exist yet. It is run at
// startup when seeding is enabled, and by the Admin login path.
func (s *Service) EnsureAdmin(ctx context.Context) (models.PublicUser, error) {
	if s.adminPassword == "" {
		return models.PublicUser{}, errors.New("admin password is not configured")
	}
	user, err := s.ensureAdmin(ctx)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *Service) isAdminLogin(in LoginInput) bool {
	if s.adminPassword == "" || in.Username != models.AdminUsername {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(in.Password), []byte(s.adminPassword)) == 1
}

// ensureAdmin is find-or-create. Two concurrent first logins race on the insert;
// the loser sees ErrUsernameTaken and re-reads the winner's row.
func (s *Service) ensureAdmin(ctx context.Context) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, models.AdminUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := s.hash(s.adminPassword)
	if err != nil {
		return nil, err
	}
	user, err = s.users.Create(ctx, models.NewUser{
		Username:     models.AdminUsername,
		Email:        adminEmail,
		FirstName:    optional(adminFirstName),
		LastName:     optional(adminLastName),
		PasswordHash: hash,
	})
	switch {
	case err == nil:
		slog.InfoContext(ctx, "admin account created", "user_id", user.ID)
		return user, nil
	case errors.Is(err, apperr.ErrUsernameTaken):
		user, err = s.users.GetByUsername(ctx, models.AdminUsername)
		if err != nil {
			return nil, fmt.Errorf("re-read admin after duplicate insert: %w", err)
		}
		return user, nil
	default:
		return nil, fmt.Errorf("create admin: %w", err)
	}
}

func (s *Service) issue(user *models.User) (LoginResult, error) {
	token, exp, err := s.tokens.Issue(Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: exp, User: user.Public()}, nil
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), BcryptCost)
	})
	return dummy
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
