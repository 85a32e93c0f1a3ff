package reportservice

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

const recentTransactionsLimit = 10

type ItemRepo interface {
	FindAll(ctx context.Context) ([]domain.Item, error)
}

type TransactionRepo interface {
	FindAll(ctx context.Context) ([]domain.Transaction, error)
}

type Service struct {
	itemRepo        ItemRepo
	transactionRepo TransactionRepo
}

func New(itemRepo ItemRepo, transactionRepo TransactionRepo) *Service {
	return &Service{
		itemRepo:        itemRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *Service) UserReport(ctx context.Context, userID string) (*domain.UserReport, error) {
	items, transactions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildUserReport(userID, items, transactions), nil
}

func (s *Service) MarketReport(ctx context.Context) (*domain.MarketReport, error) {
	items, transactions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildMarketReport(items, transactions, recentTransactionsLimit), nil
}

func (s *Service) load(ctx context.Context) ([]domain.Item, []domain.Transaction, error) {
	var (
		items        []domain.Item
		transactions []domain.Transaction
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.itemRepo.FindAll(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.FindAll(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("can't load report data: ", zap.Error(err))
		return nil, nil, err
	}
	return items, transactions, nil
}
