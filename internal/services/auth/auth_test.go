package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	customjwt "github.com/magabrotheeeer/bank-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/bank-portal/internal/models"
	services "github.com/magabrotheeeer/bank-portal/internal/services/auth"
	"github.com/magabrotheeeer/bank-portal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Мок для AccountRepository
type AccountRepoMock struct {
	mock.Mock
}

func (m *AccountRepoMock) CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountRepoMock) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *AccountRepoMock) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// Мок для SessionRegistry
type SessionRegistryMock struct {
	mock.Mock
}

func (m *SessionRegistryMock) SaveSession(ctx context.Context, sessionID string, accountID int64, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, accountID, ttl)
	return args.Error(0)
}

func (m *SessionRegistryMock) SessionAccount(ctx context.Context, sessionID string) (int64, bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *SessionRegistryMock) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// Мок для Hasher
type HasherMock struct {
	mock.Mock
}

func (m *HasherMock) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *HasherMock) Verify(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

func (m *HasherMock) DummyHash() string {
	args := m.Called()
	return args.String(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(accountID int64, sessionID string, remember bool) (string, time.Time, error) {
	args := m.Called(accountID, sessionID, remember)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

// Мок для Publisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func claimsFor(accountID int64, sid string) *customjwt.CustomClaims {
	c := &customjwt.CustomClaims{AccountID: accountID}
	c.ID = sid
	return c
}

func TestAuthService_Register(t *testing.T) {
	valid := services.RegisterInput{
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  "secret1",
	}

	tests := []struct {
		name       string
		input      func() services.RegisterInput
		setupMocks func(r *AccountRepoMock, h *HasherMock)
		wantRole   models.Role
		wantErr    error
	}{
		{
			name:  "successful regular registration",
			input: func() services.RegisterInput { return valid },
			setupMocks: func(r *AccountRepoMock, h *HasherMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, storage.ErrAccountNotFound).Once()
				h.On("Hash", "secret1").Return("hashed", nil).Once()
				r.On("CreateAccount", mock.Anything, mock.MatchedBy(func(acc models.Account) bool {
					return acc.Email == "alice@example.com" &&
						acc.PasswordHash == "hashed" &&
						acc.Role == models.RoleRegular
				})).Return(&models.Account{ID: 1, Email: "alice@example.com", Role: models.RoleRegular}, nil).Once()
			},
			wantRole: models.RoleRegular,
		},
		{
			name: "successful merchant registration",
			input: func() services.RegisterInput {
				in := valid
				in.IsMerchant = true
				return in
			},
			setupMocks: func(r *AccountRepoMock, h *HasherMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, storage.ErrAccountNotFound).Once()
				h.On("Hash", "secret1").Return("hashed", nil).Once()
				r.On("CreateAccount", mock.Anything, mock.MatchedBy(func(acc models.Account) bool {
					return acc.Role == models.RoleMerchant
				})).Return(&models.Account{ID: 2, Role: models.RoleMerchant}, nil).Once()
			},
			wantRole: models.RoleMerchant,
		},
		{
			name: "email without at sign",
			input: func() services.RegisterInput {
				in := valid
				in.Email = "bob.example.com"
				return in
			},
			setupMocks: func(_ *AccountRepoMock, _ *HasherMock) {},
			wantErr:    services.ErrInvalidEmail,
		},
		{
			name: "email without dot",
			input: func() services.RegisterInput {
				in := valid
				in.Email = "bob@localhost"
				return in
			},
			setupMocks: func(_ *AccountRepoMock, _ *HasherMock) {},
			wantErr:    services.ErrInvalidEmail,
		},
		{
			name: "invalid email is reported before weak password",
			input: func() services.RegisterInput {
				in := valid
				in.Email = "nope"
				in.Password = "123"
				return in
			},
			setupMocks: func(_ *AccountRepoMock, _ *HasherMock) {},
			wantErr:    services.ErrInvalidEmail,
		},
		{
			name: "five character password",
			input: func() services.RegisterInput {
				in := valid
				in.Password = "12345"
				return in
			},
			setupMocks: func(_ *AccountRepoMock, _ *HasherMock) {},
			wantErr:    services.ErrWeakPassword,
		},
		{
			name: "empty first name",
			input: func() services.RegisterInput {
				in := valid
				in.FirstName = "  "
				return in
			},
			setupMocks: func(_ *AccountRepoMock, _ *HasherMock) {},
			wantErr:    services.ErrMissingName,
		},
		{
			name:  "email already registered",
			input: func() services.RegisterInput { return valid },
			setupMocks: func(r *AccountRepoMock, _ *HasherMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(&models.Account{ID: 7}, nil).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:  "lookup fails",
			input: func() services.RegisterInput { return valid },
			setupMocks: func(r *AccountRepoMock, _ *HasherMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("connection refused")).Once()
			},
			wantErr: services.ErrStorageUnavailable,
		},
		{
			name:  "password too long for bcrypt",
			input: func() services.RegisterInput { return valid },
			setupMocks: func(r *AccountRepoMock, h *HasherMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, storage.ErrAccountNotFound).Once()
				h.On("Hash", "secret1").Return("", bcrypt.ErrPasswordTooLong).Once()
			},
			wantErr: services.ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			hasher := new(HasherMock)
			tt.setupMocks(repo, hasher)

			svc := services.NewAuthService(repo, new(SessionRegistryMock), hasher, new(JwtMakerMock), discardLogger())
			acc, err := svc.Register(context.Background(), tt.input())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, acc)
				repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, acc.Role)
			}
			hasher.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_ConflictOnInsert(t *testing.T) {
	repo := new(AccountRepoMock)
	hasher := new(HasherMock)
	repo.On("GetAccountByEmail", mock.Anything, "a@b.co").Return(nil, storage.ErrAccountNotFound).Once()
	hasher.On("Hash", "secret1").Return("hashed", nil).Once()
	repo.On("CreateAccount", mock.Anything, mock.Anything).Return(nil, storage.ErrEmailExists).Once()

	svc := services.NewAuthService(repo, new(SessionRegistryMock), hasher, new(JwtMakerMock), discardLogger())
	_, err := svc.Register(context.Background(), services.RegisterInput{
		Email: "a@b.co", FirstName: "A", LastName: "B", Password: "secret1",
	})

	assert.ErrorIs(t, err, services.ErrEmailTaken)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_PublishesEvent(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		publishErr error
	}{
		{name: "event published"},
		{name: "publish failure does not fail registration", publishErr: errors.New("broker down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			hasher := new(HasherMock)
			pub := new(PublisherMock)

			repo.On("GetAccountByEmail", mock.Anything, "m@shop.io").Return(nil, storage.ErrAccountNotFound).Once()
			hasher.On("Hash", "secret1").Return("hashed", nil).Once()
			repo.On("CreateAccount", mock.Anything, mock.Anything).
				Return(&models.Account{ID: 5, Email: "m@shop.io", Role: models.RoleMerchant, CreatedAt: created}, nil).Once()
			pub.On("Publish", mock.Anything, "account.registered", services.AccountRegistered{
				AccountID: 5,
				Email:     "m@shop.io",
				Role:      models.RoleMerchant,
				CreatedAt: created,
			}).Return(tt.publishErr).Once()

			svc := services.NewAuthService(repo, new(SessionRegistryMock), hasher, new(JwtMakerMock), discardLogger()).
				WithEvents(pub, "account.registered")

			acc, err := svc.Register(context.Background(), services.RegisterInput{
				Email: "m@shop.io", FirstName: "M", LastName: "S", Password: "secret1", IsMerchant: true,
			})

			require.NoError(t, err)
			assert.Equal(t, int64(5), acc.ID)
			pub.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	account := &models.Account{ID: 3, Email: "alice@example.com", PasswordHash: "stored-hash", Role: models.RoleMerchant}

	tests := []struct {
		name       string
		email      string
		password   string
		remember   bool
		setupMocks func(r *AccountRepoMock, s *SessionRegistryMock, h *HasherMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "alice@example.com",
			password: "secret1",
			setupMocks: func(r *AccountRepoMock, s *SessionRegistryMock, h *HasherMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(account, nil).Once()
				h.On("Verify", "secret1", "stored-hash").Return(true).Once()
				j.On("GenerateToken", int64(3), mock.AnythingOfType("string"), false).
					Return("token", time.Now().Add(time.Hour), nil).Once()
				s.On("SaveSession", mock.Anything, mock.AnythingOfType("string"), int64(3), mock.AnythingOfType("time.Duration")).
					Return(nil).Once()
			},
		},
		{
			name:     "remembered login",
			email:    "alice@example.com",
			password: "secret1",
			remember: true,
			setupMocks: func(r *AccountRepoMock, s *SessionRegistryMock, h *HasherMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(account, nil).Once()
				h.On("Verify", "secret1", "stored-hash").Return(true).Once()
				j.On("GenerateToken", int64(3), mock.AnythingOfType("string"), true).
					Return("token", time.Now().Add(30*24*time.Hour), nil).Once()
				s.On("SaveSession", mock.Anything, mock.AnythingOfType("string"), int64(3), mock.MatchedBy(func(ttl time.Duration) bool {
					return ttl > 29*24*time.Hour
				})).Return(nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "wrong-pass",
			setupMocks: func(r *AccountRepoMock, _ *SessionRegistryMock, h *HasherMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(account, nil).Once()
				h.On("Verify", "wrong-pass", "stored-hash").Return(false).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "unknown email verifies against dummy hash",
			email:    "ghost@example.com",
			password: "secret1",
			setupMocks: func(r *AccountRepoMock, _ *SessionRegistryMock, h *HasherMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "ghost@example.com").Return(nil, storage.ErrAccountNotFound).Once()
				h.On("DummyHash").Return("dummy-hash").Once()
				h.On("Verify", "secret1", "dummy-hash").Return(false).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "storage unavailable",
			email:    "alice@example.com",
			password: "secret1",
			setupMocks: func(r *AccountRepoMock, _ *SessionRegistryMock, _ *HasherMock, _ *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("timeout")).Once()
			},
			wantErr: services.ErrStorageUnavailable,
		},
		{
			name:     "session registry unavailable",
			email:    "alice@example.com",
			password: "secret1",
			setupMocks: func(r *AccountRepoMock, s *SessionRegistryMock, h *HasherMock, j *JwtMakerMock) {
				r.On("GetAccountByEmail", mock.Anything, "alice@example.com").Return(account, nil).Once()
				h.On("Verify", "secret1", "stored-hash").Return(true).Once()
				j.On("GenerateToken", int64(3), mock.AnythingOfType("string"), false).
					Return("token", time.Now().Add(time.Hour), nil).Once()
				s.On("SaveSession", mock.Anything, mock.Anything, int64(3), mock.Anything).
					Return(errors.New("redis down")).Once()
			},
			wantErr: services.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			sessions := new(SessionRegistryMock)
			hasher := new(HasherMock)
			maker := new(JwtMakerMock)
			tt.setupMocks(repo, sessions, hasher, maker)

			svc := services.NewAuthService(repo, sessions, hasher, maker, discardLogger())
			sess, err := svc.Login(context.Background(), tt.email, tt.password, tt.remember)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sess)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "token", sess.Token)
				assert.Equal(t, int64(3), sess.AccountID)
				assert.Equal(t, models.RoleMerchant, sess.Role)
				assert.Equal(t, tt.remember, sess.Remember)
			}
			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
			hasher.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_SameErrorForUnknownAndWrong(t *testing.T) {
	account := &models.Account{ID: 1, Email: "a@b.co", PasswordHash: "h"}

	repo := new(AccountRepoMock)
	hasher := new(HasherMock)
	repo.On("GetAccountByEmail", mock.Anything, "a@b.co").Return(account, nil)
	repo.On("GetAccountByEmail", mock.Anything, "x@b.co").Return(nil, storage.ErrAccountNotFound)
	hasher.On("DummyHash").Return("dummy")
	hasher.On("Verify", mock.Anything, mock.Anything).Return(false)

	svc := services.NewAuthService(repo, new(SessionRegistryMock), hasher, new(JwtMakerMock), discardLogger())

	_, errWrong := svc.Login(context.Background(), "a@b.co", "bad", false)
	_, errUnknown := svc.Login(context.Background(), "x@b.co", "bad", false)

	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
	hasher.AssertCalled(t, "Verify", "bad", "dummy")
}

func TestAuthService_Resolve(t *testing.T) {
	account := &models.Account{ID: 4, Email: "alice@example.com", Role: models.RoleRegular}

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *AccountRepoMock, s *SessionRegistryMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name:  "active session",
			token: "good",
			setupMocks: func(r *AccountRepoMock, s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "good").Return(claimsFor(4, "sid-1"), nil).Once()
				s.On("SessionAccount", mock.Anything, "sid-1").Return(int64(4), true, nil).Once()
				r.On("GetAccountByID", mock.Anything, int64(4)).Return(account, nil).Once()
			},
		},
		{
			name:       "empty token",
			token:      "",
			setupMocks: func(_ *AccountRepoMock, _ *SessionRegistryMock, _ *JwtMakerMock) {},
			wantErr:    services.ErrNoIdentity,
		},
		{
			name:  "tampered token",
			token: "tampered",
			setupMocks: func(_ *AccountRepoMock, _ *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "tampered").Return(nil, errors.New("signature is invalid")).Once()
			},
			wantErr: services.ErrNoIdentity,
		},
		{
			name:  "revoked session",
			token: "revoked",
			setupMocks: func(_ *AccountRepoMock, s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "revoked").Return(claimsFor(4, "sid-2"), nil).Once()
				s.On("SessionAccount", mock.Anything, "sid-2").Return(int64(0), false, nil).Once()
			},
			wantErr: services.ErrNoIdentity,
		},
		{
			name:  "session belongs to another account",
			token: "mismatch",
			setupMocks: func(_ *AccountRepoMock, s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "mismatch").Return(claimsFor(4, "sid-3"), nil).Once()
				s.On("SessionAccount", mock.Anything, "sid-3").Return(int64(9), true, nil).Once()
			},
			wantErr: services.ErrNoIdentity,
		},
		{
			name:  "account deleted",
			token: "orphan",
			setupMocks: func(r *AccountRepoMock, s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "orphan").Return(claimsFor(4, "sid-4"), nil).Once()
				s.On("SessionAccount", mock.Anything, "sid-4").Return(int64(4), true, nil).Once()
				r.On("GetAccountByID", mock.Anything, int64(4)).Return(nil, storage.ErrAccountNotFound).Once()
			},
			wantErr: services.ErrNoIdentity,
		},
		{
			name:  "registry unavailable",
			token: "good",
			setupMocks: func(_ *AccountRepoMock, s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "good").Return(claimsFor(4, "sid-1"), nil).Once()
				s.On("SessionAccount", mock.Anything, "sid-1").Return(int64(0), false, errors.New("redis down")).Once()
			},
			wantErr: services.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			sessions := new(SessionRegistryMock)
			maker := new(JwtMakerMock)
			tt.setupMocks(repo, sessions, maker)

			svc := services.NewAuthService(repo, sessions, new(HasherMock), maker, discardLogger())
			acc, err := svc.Resolve(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, acc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, account, acc)
			}
			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		setupMocks func(s *SessionRegistryMock, j *JwtMakerMock)
		wantErr    error
	}{
		{
			name:  "revokes session",
			token: "good",
			setupMocks: func(s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "good").Return(claimsFor(1, "sid"), nil).Once()
				s.On("DeleteSession", mock.Anything, "sid").Return(nil).Once()
			},
		},
		{
			name:       "no token",
			setupMocks: func(_ *SessionRegistryMock, _ *JwtMakerMock) {},
		},
		{
			name:  "invalid token",
			token: "garbage",
			setupMocks: func(_ *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "garbage").Return(nil, errors.New("malformed")).Once()
			},
		},
		{
			name:  "registry unavailable",
			token: "good",
			setupMocks: func(s *SessionRegistryMock, j *JwtMakerMock) {
				j.On("ParseToken", "good").Return(claimsFor(1, "sid"), nil).Once()
				s.On("DeleteSession", mock.Anything, "sid").Return(errors.New("redis down")).Once()
			},
			wantErr: services.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(SessionRegistryMock)
			maker := new(JwtMakerMock)
			tt.setupMocks(sessions, maker)

			svc := services.NewAuthService(new(AccountRepoMock), sessions, new(HasherMock), maker, discardLogger())
			err := svc.Logout(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			sessions.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, services.IsValidationError(services.ErrInvalidEmail))
	assert.True(t, services.IsValidationError(services.ErrEmailTaken))
	assert.False(t, services.IsValidationError(services.ErrStorageUnavailable))
	assert.False(t, services.IsValidationError(nil))
}
