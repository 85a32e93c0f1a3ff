package identityservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/pg"
	"github.com/GlebRadaev/marketplace/pkg/auth"
)

type mocks struct {
	userRepo    *MockUserRepo
	sessions    *MockSessionStore
	txManager   *pg.MockTXManager
	hashService *auth.MockHashServiceInterface
	jwtService  *auth.MockJWTServiceInterface
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func NewMock(t *testing.T, opts Options) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		userRepo:    NewMockUserRepo(ctrl),
		sessions:    NewMockSessionStore(ctrl),
		txManager:   pg.NewMockTXManager(ctrl),
		hashService: auth.NewMockHashServiceInterface(ctrl),
		jwtService:  auth.NewMockJWTServiceInterface(ctrl),
	}
	service := New(m.userRepo, m.sessions, m.txManager, m.hashService, m.jwtService, opts)
	service.now = func() time.Time { return fixedNow }
	ids := 0
	service.newID = func() string {
		ids++
		return []string{"id-1", "id-2", "id-3", "id-4"}[ids-1]
	}
	return service, m
}

func defaultOptions() Options {
	return Options{
		StartingBalance: decimal.NewFromInt(500),
		VerifyPasswords: true,
		TokenTTL:        time.Hour,
	}
}

func passThrough(m *mocks) {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("database error")

	tests := []struct {
		name            string
		username        string
		email           string
		password        string
		prepareMock     func(m *mocks)
		expectedSession *domain.Session
		expectedError   error
	}{
		{
			name:     "Successful registration",
			username: "newuser",
			email:    "new@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "new@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("secret").Return("hashed", nil)
				m.userRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
					return user, nil
				})
				m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)
			},
			expectedSession: &domain.Session{
				ID: "id-2",
				User: domain.User{
					ID:           "id-1",
					Username:     "newuser",
					Email:        "new@example.com",
					PasswordHash: "hashed",
					CashBalance:  decimal.NewFromInt(500),
					CreatedAt:    fixedNow,
				},
				CreatedAt: fixedNow,
			},
		},
		{
			name:     "Email already registered",
			username: "john",
			email:    "john@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(&domain.User{ID: "1"}, nil)
			},
			expectedError: domain.ErrDuplicateEmail,
		},
		{
			name:     "Error finding user",
			username: "john",
			email:    "john@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, dbErr)
			},
			expectedError: dbErr,
		},
		{
			name:     "Empty password",
			username: "john",
			email:    "john@example.com",
			password: "",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("").Return("", auth.ErrEmptyPassword)
			},
			expectedError: auth.ErrEmptyPassword,
		},
		{
			name:     "Error creating user",
			username: "newuser",
			email:    "new@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "new@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("secret").Return("hashed", nil)
				m.userRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil, domain.ErrDuplicateEmail)
			},
			expectedError: domain.ErrDuplicateEmail,
		},
		{
			name:     "Error saving session",
			username: "newuser",
			email:    "new@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "new@example.com").Return(nil, nil)
				m.hashService.EXPECT().HashPassword("secret").Return("hashed", nil)
				m.userRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
					return user, nil
				})
				m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(dbErr)
			},
			expectedError: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t, defaultOptions())
			tt.prepareMock(m)

			session, err := service.Register(ctx, tt.username, tt.email, tt.password)

			assert.ErrorIs(t, err, tt.expectedError)
			if tt.expectedSession == nil {
				assert.Nil(t, session)
				return
			}
			assert.Equal(t, tt.expectedSession.ID, session.ID)
			assert.Equal(t, tt.expectedSession.CreatedAt, session.CreatedAt)
			assert.Equal(t, tt.expectedSession.User.ID, session.User.ID)
			assert.Equal(t, tt.expectedSession.User.Email, session.User.Email)
			assert.Equal(t, tt.expectedSession.User.PasswordHash, session.User.PasswordHash)
			assert.True(t, tt.expectedSession.User.CashBalance.Equal(session.User.CashBalance))
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	john := &domain.User{ID: "1", Username: "john_doe", Email: "john@example.com", PasswordHash: "hashed", CashBalance: decimal.NewFromInt(1000)}

	tests := []struct {
		name          string
		verify        bool
		email         string
		password      string
		prepareMock   func(m *mocks)
		expectedUser  string
		expectedError error
	}{
		{
			name:     "Successful login",
			verify:   true,
			email:    "john@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(john, nil)
				m.hashService.EXPECT().ComparePassword("hashed", "secret").Return(true)
				m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)
			},
			expectedUser: "1",
		},
		{
			name:     "Wrong password",
			verify:   true,
			email:    "john@example.com",
			password: "wrong",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(john, nil)
				m.hashService.EXPECT().ComparePassword("hashed", "wrong").Return(false)
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "Unknown email",
			verify:   true,
			email:    "nobody@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, nil)
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "Email match is case sensitive",
			verify:   true,
			email:    "JOHN@example.com",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "JOHN@example.com").Return(nil, nil)
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "Empty password",
			verify:   false,
			email:    "john@example.com",
			password: "",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(john, nil)
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "Any password without verification",
			verify:   false,
			email:    "john@example.com",
			password: "anything",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByEmail(ctx, "john@example.com").Return(john, nil)
				m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)
			},
			expectedUser: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			opts.VerifyPasswords = tt.verify
			service, m := NewMock(t, opts)
			tt.prepareMock(m)

			session, err := service.Login(ctx, tt.email, tt.password)

			assert.ErrorIs(t, err, tt.expectedError)
			if tt.expectedUser == "" {
				assert.Nil(t, session)
				return
			}
			assert.Equal(t, tt.expectedUser, session.User.ID)
			assert.Equal(t, "id-1", session.ID)
		})
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	service, m := NewMock(t, defaultOptions())

	m.sessions.EXPECT().Delete(ctx, "s1").Return(nil)
	assert.NoError(t, service.Logout(ctx, "s1"))

	m.sessions.EXPECT().Delete(ctx, "s2").Return(errors.New("redis down"))
	assert.Error(t, service.Logout(ctx, "s2"))
}

func TestCurrent(t *testing.T) {
	ctx := context.Background()
	snapshot := domain.User{ID: "1", Username: "john_doe", CashBalance: decimal.NewFromInt(1000)}

	tests := []struct {
		name            string
		prepareMock     func(m *mocks)
		expectedBalance decimal.Decimal
		expectedError   error
	}{
		{
			name: "No session",
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(nil, nil)
			},
			expectedError: domain.ErrNotAuthenticated,
		},
		{
			name: "Fresh snapshot",
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(&domain.Session{ID: "s1", User: snapshot}, nil)
				m.userRepo.EXPECT().FindByID(ctx, "1").Return(&domain.User{ID: "1", Username: "john_doe", CashBalance: decimal.NewFromInt(1000)}, nil)
			},
			expectedBalance: decimal.NewFromInt(1000),
		},
		{
			name: "Stale snapshot is refreshed",
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(&domain.Session{ID: "s1", User: snapshot}, nil)
				m.userRepo.EXPECT().FindByID(ctx, "1").Return(&domain.User{ID: "1", Username: "john_doe", CashBalance: decimal.NewFromInt(1300)}, nil)
				m.sessions.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.Session) error {
					assert.True(t, s.User.CashBalance.Equal(decimal.NewFromInt(1300)))
					return nil
				})
			},
			expectedBalance: decimal.NewFromInt(1300),
		},
		{
			name: "User gone",
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(&domain.Session{ID: "s1", User: snapshot}, nil)
				m.userRepo.EXPECT().FindByID(ctx, "1").Return(nil, nil)
				m.sessions.EXPECT().Delete(ctx, "s1").Return(nil)
			},
			expectedError: domain.ErrNotAuthenticated,
		},
		{
			name: "User gone and session store down",
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(&domain.Session{ID: "s1", User: snapshot}, nil)
				m.userRepo.EXPECT().FindByID(ctx, "1").Return(nil, nil)
				m.sessions.EXPECT().Delete(ctx, "s1").Return(errors.New("connection refused"))
			},
			expectedError: domain.ErrNotAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t, defaultOptions())
			tt.prepareMock(m)

			user, err := service.Current(ctx, "s1")

			assert.ErrorIs(t, err, tt.expectedError)
			if tt.expectedError != nil {
				assert.Nil(t, user)
				return
			}
			assert.True(t, tt.expectedBalance.Equal(user.CashBalance))
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	ctx := context.Background()
	service, m := NewMock(t, defaultOptions())

	m.sessions.EXPECT().Get(ctx, "open").Return(&domain.Session{ID: "open"}, nil)
	m.sessions.EXPECT().Get(ctx, "closed").Return(nil, nil)
	m.sessions.EXPECT().Get(ctx, "broken").Return(nil, errors.New("redis down"))

	assert.True(t, service.IsAuthenticated(ctx, "open"))
	assert.False(t, service.IsAuthenticated(ctx, "closed"))
	assert.False(t, service.IsAuthenticated(ctx, "broken"))
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	session := func() *domain.Session {
		return &domain.Session{ID: "s1", User: domain.User{ID: "1", CashBalance: decimal.NewFromInt(1000)}}
	}

	tests := []struct {
		name            string
		amount          decimal.Decimal
		prepareMock     func(m *mocks)
		expectedBalance decimal.Decimal
		expectedError   error
	}{
		{
			name:   "Successful deposit",
			amount: decimal.NewFromInt(250),
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(session(), nil)
				m.userRepo.EXPECT().AdjustBalance(ctx, "1", decimal.NewFromInt(250)).Return(&domain.User{ID: "1", CashBalance: decimal.NewFromInt(1250)}, nil)
				m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)
			},
			expectedBalance: decimal.NewFromInt(1250),
		},
		{
			name:          "Zero amount",
			amount:        decimal.Zero,
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			amount:        decimal.NewFromInt(-5),
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrInvalidAmount,
		},
		{
			name:          "More than two decimal places",
			amount:        decimal.RequireFromString("0.001"),
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrInvalidAmount,
		},
		{
			name:   "Cents are kept",
			amount: decimal.RequireFromString("0.50"),
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(session(), nil)
				m.userRepo.EXPECT().AdjustBalance(ctx, "1", decimal.RequireFromString("0.50")).Return(&domain.User{ID: "1", CashBalance: decimal.RequireFromString("1000.50")}, nil)
				m.sessions.EXPECT().Save(ctx, gomock.Any()).Return(nil)
			},
			expectedBalance: decimal.RequireFromString("1000.50"),
		},
		{
			name:   "Not logged in",
			amount: decimal.NewFromInt(10),
			prepareMock: func(m *mocks) {
				m.sessions.EXPECT().Get(ctx, "s1").Return(nil, nil)
			},
			expectedError: domain.ErrNotAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t, defaultOptions())
			tt.prepareMock(m)

			user, err := service.Deposit(ctx, "s1", tt.amount)

			assert.ErrorIs(t, err, tt.expectedError)
			if tt.expectedError != nil {
				assert.Nil(t, user)
				return
			}
			assert.True(t, tt.expectedBalance.Equal(user.CashBalance))
		})
	}
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	price := decimal.NewFromInt(180)

	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func(m *mocks)
		expectedError error
	}{
		{
			name:   "Moves funds",
			amount: price,
			prepareMock: func(m *mocks) {
				passThrough(m)
				gomock.InOrder(
					m.userRepo.EXPECT().AdjustBalance(ctx, "buyer", price.Neg()).Return(&domain.User{}, nil),
					m.userRepo.EXPECT().AdjustBalance(ctx, "seller", price).Return(&domain.User{}, nil),
				)
			},
		},
		{
			name:   "Buyer short of funds",
			amount: price,
			prepareMock: func(m *mocks) {
				passThrough(m)
				m.userRepo.EXPECT().AdjustBalance(ctx, "buyer", price.Neg()).Return(nil, domain.ErrInsufficientFunds)
			},
			expectedError: domain.ErrInsufficientFunds,
		},
		{
			name:          "Non-positive amount",
			amount:        decimal.Zero,
			prepareMock:   func(m *mocks) {},
			expectedError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t, defaultOptions())
			tt.prepareMock(m)

			err := service.Transfer(ctx, "buyer", "seller", tt.amount)

			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, m := NewMock(t, defaultOptions())
	session := &domain.Session{ID: "s1", User: domain.User{ID: "1"}}

	m.jwtService.EXPECT().GenerateJWT("1", "s1", fixedNow.Add(time.Hour)).Return("token", nil)
	token, err := service.GenerateToken(session)
	assert.NoError(t, err)
	assert.Equal(t, "token", token)

	m.jwtService.EXPECT().GenerateJWT("1", "s1", fixedNow.Add(time.Hour)).Return("", errors.New("sign error"))
	token, err = service.GenerateToken(session)
	assert.Error(t, err)
	assert.Empty(t, token)
}
