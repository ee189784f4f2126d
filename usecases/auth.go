package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hotel-server/cache"
	customerrors "hotel-server/customErrors"
	"hotel-server/entities"
	"hotel-server/logger"
	"hotel-server/mailer"
	"hotel-server/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCodeTTL = 5 * time.Minute

	codeBytes  = 3  // 6 hex characters
	tokenBytes = 32 // 64 hex characters

	minUsernameLen = 3
	maxUsernameLen = 20
	minPasswordLen = 6
)

type AuthUseCase struct {
	users    repositories.UserRepository
	codes    cache.VerificationStore
	mail     mailer.Mailer
	codeTTL  time.Duration
	hashCost int
	now      func() time.Time
}

func NewAuthUseCase(users repositories.UserRepository, codes cache.VerificationStore, mail mailer.Mailer, codeTTL time.Duration) *AuthUseCase {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &AuthUseCase{
		users:    users,
		codes:    codes,
		mail:     mail,
		codeTTL:  codeTTL,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
	Code     string `json:"code" form:"code"`
	Role     string `json:"role" form:"role"`
	Phone    string `json:"phone" form:"phone"`
}

type LoginResult struct {
	User  entities.PublicUser `json:"user"`
	Token string              `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendCode issues a fresh code for email, replacing any pending one, and
// mails it. A failed dispatch leaves the stored code in place.
func (uc *AuthUseCase) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return customerrors.ErrMissingEmail
	}

	code, err := randomHex(codeBytes)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	entry := cache.VerificationEntry{Code: code, ExpiresAt: uc.now().Add(uc.codeTTL)}
	if err := uc.codes.Set(ctx, email, entry); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if err := uc.mail.SendVerificationCode(ctx, email, code); err != nil {
		logger.ErrorContext(ctx, "verification email failed", "email", email, "error", err)
		return customerrors.ErrSendCode
	}

	logger.InfoContext(ctx, "verification code sent", "email", email)
	return nil
}

func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*entities.PublicUser, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || in.Password == "" || email == "" || in.Code == "" {
		return nil, customerrors.ErrMissingFields
	}

	if err := uc.checkCode(ctx, email, in.Code); err != nil {
		return nil, err
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entities.RoleUser
	}
	if err := validateAccount(username, in.Password, role); err != nil {
		return nil, err
	}

	existing, err := uc.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, customerrors.ErrDuplicateEmail
		}
		return nil, customerrors.ErrDuplicateUsername
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := uc.codes.Delete(ctx, email); err != nil {
		logger.WarnContext(ctx, "could not clear verification code", "email", email, "error", err)
	}

	logger.InfoContext(ctx, "user registered", "username", username, "email", email)
	public := user.Public()
	return &public, nil
}

// checkCode validates code against the pending entry for email. An expired
// entry is purged as a side effect.
func (uc *AuthUseCase) checkCode(ctx context.Context, email, code string) error {
	entry, err := uc.codes.Get(ctx, email)
	if errors.Is(err, cache.ErrMiss) {
		return customerrors.ErrCodeMissing
	}
	if err != nil {
		return fmt.Errorf("load code: %w", err)
	}

	if entry.Expired(uc.now()) {
		if err := uc.codes.Delete(ctx, email); err != nil {
			logger.WarnContext(ctx, "could not purge expired code", "email", email, "error", err)
		}
		return customerrors.ErrCodeExpired
	}

	if code != entry.Code {
		return customerrors.ErrCodeMismatch
	}
	return nil
}

func validateAccount(username, password, role string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return customerrors.Validation(fmt.Sprintf("username must be %d-%d characters", minUsernameLen, maxUsernameLen))
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return customerrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if !entities.ValidRole(role) {
		return customerrors.Validation("role must be one of user, merchant, admin")
	}
	return nil
}

// Login checks the credentials and stores a fresh opaque token on the
// user, replacing whatever token it had.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, customerrors.ErrMissingLogin
	}

	user, err := uc.users.FindByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, customerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, customerrors.ErrInvalidCredentials
	}

	token, err := randomHex(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := uc.users.UpdateToken(ctx, user.ID, token); err != nil {
		return nil, err
	}
	user.Token = token

	logger.InfoContext(ctx, "user logged in", "username", username)
	return &LoginResult{User: user.Public(), Token: token}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
