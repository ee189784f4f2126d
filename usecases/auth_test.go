package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-server/cache"
	customerrors "hotel-server/customErrors"
	"hotel-server/db"
	"hotel-server/entities"
	"hotel-server/repositories"
	"hotel-server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendVerificationCode(ctx context.Context, toEmail, code string) error {
	args := m.Called(ctx, toEmail, code)
	return args.Error(0)
}

type authFixture struct {
	uc    *AuthUseCase
	users repositories.UserRepository
	codes *cache.MemoryStore
	mail  *mockMailer
	clock time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	f := &authFixture{
		users: repositories.NewUserPgRepository(database),
		codes: cache.NewMemoryStore(),
		mail:  new(mockMailer),
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.uc = NewAuthUseCase(f.users, f.codes, f.mail, 5*time.Minute)
	f.uc.hashCost = bcrypt.MinCost
	f.uc.now = func() time.Time { return f.clock }
	return f
}

// sendCode runs SendCode and returns the code that was mailed.
func (f *authFixture) sendCode(t *testing.T, email string) string {
	t.Helper()

	var sent string
	f.mail.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) { sent = args.String(2) }).
		Once()
	require.NoError(t, f.uc.SendCode(context.Background(), email))
	return sent
}

func (f *authFixture) register(t *testing.T, username, email string) *entities.PublicUser {
	t.Helper()

	code := f.sendCode(t, email)
	user, err := f.uc.Register(context.Background(), RegisterInput{
		Username: username, Password: "secret1", Email: email, Code: code,
	})
	require.NoError(t, err)
	return user
}

func TestSendCode(t *testing.T) {
	f := newAuthFixture(t)

	code := f.sendCode(t, "  Alice@Example.com ")
	assert.Regexp(t, `^[0-9a-f]{6}$`, code)

	entry, err := f.codes.Get(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, code, entry.Code)
	assert.Equal(t, f.clock.Add(5*time.Minute), entry.ExpiresAt)
}

func TestSendCode_MissingEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.uc.SendCode(context.Background(), "   ")
	assert.Equal(t, customerrors.ErrMissingEmail, err)
	f.mail.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendCode_ReplacesPendingCode(t *testing.T) {
	f := newAuthFixture(t)

	first := f.sendCode(t, "bob@example.com")
	var second string
	for second == "" || second == first {
		second = f.sendCode(t, "bob@example.com")
	}

	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "bob", Password: "secret1", Email: "bob@example.com", Code: first,
	})
	assert.Equal(t, customerrors.ErrCodeMismatch, err)
}

func TestSendCode_MailFailureKeepsCode(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.On("SendVerificationCode", mock.Anything, "carol@example.com", mock.Anything).
		Return(errors.New("smtp down"))

	err := f.uc.SendCode(context.Background(), "carol@example.com")
	assert.Equal(t, customerrors.ErrSendCode, err)

	_, err = f.codes.Get(context.Background(), "carol@example.com")
	assert.NoError(t, err)
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	user := f.register(t, "alice", "Alice@Example.com")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, entities.RoleUser, user.Role)

	stored, err := f.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_CodeIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	code := f.sendCode(t, "alice@example.com")

	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "secret1", Email: "alice@example.com", Code: code,
	})
	require.NoError(t, err)

	_, err = f.uc.Register(context.Background(), RegisterInput{
		Username: "alice2", Password: "secret1", Email: "alice@example.com", Code: code,
	})
	assert.Equal(t, customerrors.ErrCodeMissing, err)
}

func TestRegister_Expired(t *testing.T) {
	f := newAuthFixture(t)
	code := f.sendCode(t, "alice@example.com")

	f.clock = f.clock.Add(5*time.Minute + time.Millisecond)
	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "secret1", Email: "alice@example.com", Code: code,
	})
	assert.Equal(t, customerrors.ErrCodeExpired, err)

	// the expired entry is gone
	_, err = f.codes.Get(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRegister_ExpiredSurvivesSweep(t *testing.T) {
	f := newAuthFixture(t)

	// issued six minutes ago, so one minute past its five-minute validity
	f.clock = time.Now().Add(-6 * time.Minute)
	code := f.sendCode(t, "alice@example.com")

	removed := services.NewCodeSweeper(f.codes, time.Minute).Sweep()
	assert.Equal(t, 0, removed)

	f.clock = time.Now()
	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "secret1", Email: "alice@example.com", Code: code,
	})
	assert.Equal(t, customerrors.ErrCodeExpired, err)
}

func TestRegister_MissingAfterGraceSweep(t *testing.T) {
	f := newAuthFixture(t)

	f.clock = time.Now().Add(-5*time.Minute - cache.ExpiredGrace - time.Minute)
	code := f.sendCode(t, "alice@example.com")

	assert.Equal(t, 1, services.NewCodeSweeper(f.codes, time.Minute).Sweep())

	f.clock = time.Now()
	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "secret1", Email: "alice@example.com", Code: code,
	})
	assert.Equal(t, customerrors.ErrCodeMissing, err)
}

func TestRegister_AtExpiryStillValid(t *testing.T) {
	f := newAuthFixture(t)
	code := f.sendCode(t, "alice@example.com")

	f.clock = f.clock.Add(5 * time.Minute)
	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "secret1", Email: "alice@example.com", Code: code,
	})
	assert.NoError(t, err)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input func(code string) RegisterInput
		want  error
		code  int
	}{
		{
			name:  "missing username",
			input: func(code string) RegisterInput { return RegisterInput{Password: "secret1", Email: "new@example.com", Code: code} },
			want:  customerrors.ErrMissingFields,
		},
		{
			name:  "missing code",
			input: func(string) RegisterInput { return RegisterInput{Username: "newbie", Password: "secret1", Email: "new@example.com"} },
			want:  customerrors.ErrMissingFields,
		},
		{
			name: "wrong code",
			input: func(string) RegisterInput {
				return RegisterInput{Username: "newbie", Password: "secret1", Email: "new@example.com", Code: "zzzzzz"}
			},
			want: customerrors.ErrCodeMismatch,
		},
		{
			name: "duplicate email",
			input: func(code string) RegisterInput {
				return RegisterInput{Username: "newbie", Password: "secret1", Email: "taken@example.com", Code: code}
			},
			want: customerrors.ErrDuplicateEmail,
		},
		{
			name: "duplicate username",
			input: func(code string) RegisterInput {
				return RegisterInput{Username: "taken", Password: "secret1", Email: "new@example.com", Code: code}
			},
			want: customerrors.ErrDuplicateUsername,
		},
		{
			name: "short password",
			input: func(code string) RegisterInput {
				return RegisterInput{Username: "newbie", Password: "12345", Email: "new@example.com", Code: code}
			},
			code: 400,
		},
		{
			name: "short username",
			input: func(code string) RegisterInput {
				return RegisterInput{Username: "ab", Password: "secret1", Email: "new@example.com", Code: code}
			},
			code: 400,
		},
		{
			name: "unknown role",
			input: func(code string) RegisterInput {
				return RegisterInput{Username: "newbie", Password: "secret1", Email: "new@example.com", Code: code, Role: "root"}
			},
			code: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.register(t, "taken", "taken@example.com")

			in := tt.input("")
			code := f.sendCode(t, in.Email)
			in = tt.input(code)

			_, err := f.uc.Register(context.Background(), in)
			require.Error(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, err)
			} else {
				assert.Equal(t, tt.code, customerrors.GetCode(err))
			}
		})
	}
}

func TestRegister_DuplicateUsesNormalizedEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com")

	code := f.sendCode(t, "ALICE@example.com")
	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username: "alice2", Password: "secret1", Email: "ALICE@example.com", Code: code,
	})
	assert.Equal(t, customerrors.ErrDuplicateEmail, err)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	registered := f.register(t, "alice", "alice@example.com")

	first, err := f.uc.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, *registered, first.User)
	assert.Regexp(t, `^[0-9a-f]{64}$`, first.Token)

	second, err := f.uc.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	stored, err := f.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, second.Token, stored.Token)
}

func TestLogin_Errors(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"missing password", "alice", "", customerrors.ErrMissingLogin},
		{"missing username", "", "secret1", customerrors.ErrMissingLogin},
		{"unknown user", "nobody", "secret1", customerrors.ErrInvalidCredentials},
		{"wrong password", "alice", "wrong-pass", customerrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Login(context.Background(), tt.username, tt.password)
			assert.Equal(t, tt.want, err)
		})
	}
}
