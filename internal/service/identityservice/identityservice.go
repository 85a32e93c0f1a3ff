package identityservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/marketplace/internal/domain"
	"github.com/GlebRadaev/marketplace/internal/metrics"
	"github.com/GlebRadaev/marketplace/internal/pg"
	"github.com/GlebRadaev/marketplace/pkg/auth"
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (*domain.User, error)
}

type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	StartingBalance decimal.Decimal
	// VerifyPasswords off reproduces the demo behaviour: any non-empty
	// password logs into a known email.
	VerifyPasswords bool
	TokenTTL        time.Duration
}

type Service struct {
	userRepo    UserRepo
	sessions    SessionStore
	txManager   pg.TXManager
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	opts        Options

	now   func() time.Time
	newID func() string
}

func New(
	repo UserRepo,
	sessions SessionStore,
	txManager pg.TXManager,
	hashService auth.HashServiceInterface,
	jwtService auth.JWTServiceInterface,
	opts Options,
) *Service {
	return &Service{
		userRepo:    repo,
		sessions:    sessions,
		txManager:   txManager,
		hashService: hashService,
		jwtService:  jwtService,
		opts:        opts,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.Session, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("email already in use", zap.String("email", email))
		return nil, domain.ErrDuplicateEmail
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		ID:           s.newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		CashBalance:  s.opts.StartingBalance,
		CreatedAt:    s.now().UTC(),
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	session, err := s.openSession(ctx, newUser)
	if err != nil {
		return nil, err
	}

	metrics.Registrations.Inc()
	zap.L().Info("user successfully registered", zap.String("user_id", newUser.ID))
	return session, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if user == nil || password == "" {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	if s.opts.VerifyPasswords && !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	zap.L().Info("user successfully authenticated", zap.String("user_id", user.ID))
	return session, nil
}

// Logout drops the session. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		zap.L().Error("can't delete session: ", zap.Error(err))
		return err
	}
	return nil
}

// Current returns the session's user with a fresh balance and refreshes the
// stored snapshot when it went stale.
func (s *Service) Current(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		zap.L().Error("can't load session: ", zap.Error(err))
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.userRepo.FindByID(ctx, session.User.ID)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if user == nil {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			zap.L().Warn("can't drop session of missing user", zap.Error(err))
		}
		return nil, domain.ErrNotAuthenticated
	}

	if !user.CashBalance.Equal(session.User.CashBalance) || user.Username != session.User.Username {
		session.User = *user
		if err := s.sessions.Save(ctx, session); err != nil {
			zap.L().Warn("can't refresh session snapshot", zap.Error(err))
		}
	}
	return user, nil
}

// IsAuthenticated reports whether the session is still open.
func (s *Service) IsAuthenticated(ctx context.Context, sessionID string) bool {
	session, err := s.sessions.Get(ctx, sessionID)
	return err == nil && session != nil
}

func (s *Service) Deposit(ctx context.Context, sessionID string, amount decimal.Decimal) (*domain.User, error) {
	if !domain.ValidAmount(amount) {
		return nil, domain.ErrInvalidAmount
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		zap.L().Error("can't load session: ", zap.Error(err))
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.userRepo.AdjustBalance(ctx, session.User.ID, amount)
	if err != nil {
		zap.L().Error("can't deposit cash: ", zap.Error(err))
		return nil, err
	}

	session.User = *user
	if err := s.sessions.Save(ctx, session); err != nil {
		zap.L().Error("can't save session: ", zap.Error(err))
		return nil, err
	}

	metrics.Deposits.Inc()
	zap.L().Info("cash deposited", zap.String("user_id", user.ID), zap.String("amount", amount.String()))
	return user, nil
}

// Transfer moves amount from one balance to another. It joins the caller's
// transaction when there is one.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	if !domain.ValidAmount(amount) {
		return domain.ErrInvalidAmount
	}
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.AdjustBalance(ctx, fromID, amount.Neg()); err != nil {
			return err
		}
		if _, err := s.userRepo.AdjustBalance(ctx, toID, amount); err != nil {
			zap.L().Error("can't credit seller: ", zap.Error(err))
			return err
		}
		return nil
	})
}

func (s *Service) GenerateToken(session *domain.Session) (string, error) {
	expirationTime := s.now().Add(s.opts.TokenTTL)

	token, err := s.jwtService.GenerateJWT(session.User.ID, session.ID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (s *Service) openSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	session := &domain.Session{
		ID:        s.newID(),
		User:      *user,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		zap.L().Error("can't save session: ", zap.Error(err))
		return nil, err
	}
	return session, nil
}
