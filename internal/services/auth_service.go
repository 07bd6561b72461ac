package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"coursesite/internal/auth"
	"coursesite/internal/models"
	"coursesite/pkg/crypto"
	"coursesite/pkg/mail"
	"coursesite/pkg/metrics"
)

const defaultVerificationTokenBytes = 32

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("auth service: email already exists")
	// ErrInvalidRole indicates the requested role is not a known value.
	ErrInvalidRole = errors.New("auth service: invalid role")
	// ErrInvalidCredentials covers both unknown emails and password mismatches
	// so callers cannot distinguish which one failed.
	ErrInvalidCredentials = errors.New("auth service: invalid credentials")
	// ErrEmailNotVerified signals a valid credential pair on an unverified account.
	ErrEmailNotVerified = errors.New("auth service: email not verified")
	// ErrInvalidVerification indicates an unknown or already-consumed verification token.
	ErrInvalidVerification = errors.New("auth service: invalid verification token")
)

// AuthOption customises the AuthService.
type AuthOption func(*AuthService)

// WithVerification toggles the email verification flow.
func WithVerification(enabled bool) AuthOption {
	return func(s *AuthService) {
		s.verificationEnabled = enabled
	}
}

// WithVerificationBaseURL sets the base URL used in verification links.
func WithVerificationBaseURL(url string) AuthOption {
	return func(s *AuthService) {
		s.baseURL = strings.TrimRight(strings.TrimSpace(url), "/")
	}
}

// WithMailer injects the mailer used for verification emails.
func WithMailer(mailer mail.Mailer) AuthOption {
	return func(s *AuthService) {
		s.mailer = mailer
	}
}

// WithAuthClock injects a custom time source.
func WithAuthClock(clock func() time.Time) AuthOption {
	return func(s *AuthService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// AuthService implements signup, email verification and login.
type AuthService struct {
	db                  *gorm.DB
	jwt                 *auth.JWTService
	mailer              mail.Mailer
	baseURL             string
	verificationEnabled bool
	tokenBytes          int
	now                 func() time.Time
}

// NewAuthService constructs the service once its database and JWT dependencies are supplied.
func NewAuthService(db *gorm.DB, jwt *auth.JWTService, opts ...AuthOption) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}

	service := &AuthService{
		db:         db,
		jwt:        jwt,
		tokenBytes: defaultVerificationTokenBytes,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// SignupInput captures the fields required to register an account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// SignupResult is either an issued session or a pending-verification acknowledgement.
type SignupResult struct {
	Pending bool
	Message string
	Token   string
	User    *models.User
}

// Signup registers a new account. With verification enabled the account is
// created unverified and a verification email is dispatched inline; the
// account creation is rolled back when the email cannot be sent.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || input.Password == "" || name == "" {
		return nil, errors.New("auth service: email, password and name are required")
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&existing).Error
	if err == nil {
		metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("auth service: query user: %w", err)
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     input.Role,
		Verified: !s.verificationEnabled,
	}

	if !s.verificationEnabled {
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("auth service: create user: %w", err)
		}

		token, err := s.jwt.GenerateToken(&user)
		if err != nil {
			return nil, fmt.Errorf("auth service: issue token: %w", err)
		}

		metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
		return &SignupResult{Token: token, User: &user}, nil
	}

	verificationToken, err := crypto.GenerateToken(s.tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("auth service: generate verification token: %w", err)
	}
	user.VerificationToken = &verificationToken

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("auth service: create user: %w", err)
		}
		if err := s.sendVerificationEmail(ctx, email, verificationToken); err != nil {
			metrics.EmailsSent.WithLabelValues("failure").Inc()
			return fmt.Errorf("auth service: send verification email: %w", err)
		}
		metrics.EmailsSent.WithLabelValues("success").Inc()
		return nil
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
	return &SignupResult{
		Pending: true,
		Message: "Signup successful! Please check your email to verify your account.",
		User:    &user,
	}, nil
}

// VerifyEmail consumes a verification token, marking the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidVerification
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("verification_token = ?", token).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidVerification
	}
	if err != nil {
		return fmt.Errorf("auth service: find verification token: %w", err)
	}

	// Single use: the token column is cleared together with the flag.
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"verified":           true,
		"verification_token": nil,
	}).Error; err != nil {
		return fmt.Errorf("auth service: mark verified: %w", err)
	}

	return nil
}

// Login verifies the credential pair and issues a session token. Unknown
// emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("auth service: query user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return "", nil, ErrInvalidCredentials
	}

	if s.verificationEnabled && !user.Verified {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return "", nil, ErrEmailNotVerified
	}

	token, err := s.jwt.GenerateToken(&user)
	if err != nil {
		return "", nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return token, &user, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, email, token string) error {
	if s.mailer == nil {
		return errors.New("no mailer configured")
	}

	link := token
	if s.baseURL != "" {
		link = fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.baseURL, token)
	}

	msg := mail.Message{
		To:      email,
		Subject: "Verify your email",
		Body: fmt.Sprintf("Thank you for registering!\n\nPlease verify your email by visiting the link below:\n%s\n\nIf you did not create an account, you can ignore this message.\n", link),
	}

	// A disabled mailer fails signup too: an unverified account with no mail
	// on the way could never log in.
	return s.mailer.Send(ctx, msg)
}
