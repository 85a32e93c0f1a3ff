package service

import (
	"context"

	"github.com/GlebRadaev/marketplace/internal/config"
	"github.com/GlebRadaev/marketplace/internal/handlers/auth"
	"github.com/GlebRadaev/marketplace/internal/handlers/balance"
	"github.com/GlebRadaev/marketplace/internal/handlers/items"
	"github.com/GlebRadaev/marketplace/internal/handlers/reports"
	"github.com/GlebRadaev/marketplace/internal/repo"
	"github.com/GlebRadaev/marketplace/internal/service/identityservice"
	"github.com/GlebRadaev/marketplace/internal/service/marketservice"
	"github.com/GlebRadaev/marketplace/internal/service/reportservice"

	pkgauth "github.com/GlebRadaev/marketplace/pkg/auth"
)

// IdentityService is everything the HTTP layer asks of the identity store.
type IdentityService interface {
	auth.Service
	balance.Service
	IsAuthenticated(ctx context.Context, sessionID string) bool
}

type Services struct {
	IdentityService IdentityService
	MarketService   items.Service
	ReportService   reports.Service
}

func New(
	repo *repo.Repositories,
	sessions identityservice.SessionStore,
	jwtService pkgauth.JWTServiceInterface,
	cfg *config.Config,
) *Services {
	identityService := identityservice.New(repo.UserRepo, sessions, repo.TxManager, &pkgauth.HashService{}, jwtService, identityservice.Options{
		StartingBalance: cfg.StartingBalance,
		VerifyPasswords: cfg.VerifyPasswords,
		TokenTTL:        cfg.TokenTTL,
	})

	var wallet marketservice.Wallet
	if cfg.SettlePurchases {
		wallet = identityService
	}
	marketService := marketservice.New(repo.ItemRepo, repo.TransactionRepo, repo.TxManager, wallet)
	reportService := reportservice.New(repo.ItemRepo, repo.TransactionRepo)

	return &Services{
		IdentityService: identityService,
		MarketService:   marketService,
		ReportService:   reportService,
	}
}
