package reportservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockItemRepo, *MockTransactionRepo) {
	ctrl := gomock.NewController(t)
	itemRepo := NewMockItemRepo(ctrl)
	transactionRepo := NewMockTransactionRepo(ctrl)
	return New(itemRepo, transactionRepo), itemRepo, transactionRepo
}

func fixtures() ([]domain.Item, []domain.Transaction) {
	items := []domain.Item{
		{ID: "1", Category: "Electronics", Price: decimal.NewFromInt(120), SellerID: "2", IsAvailable: true},
		{ID: "2", Category: "Sports", Price: decimal.NewFromInt(40), SellerID: "3", IsAvailable: false},
	}
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "t1", ItemID: "2", SellerID: "3", BuyerID: "2", Price: decimal.NewFromInt(40), Date: base},
	}
	return items, txs
}

func TestUserReport(t *testing.T) {
	service, itemRepo, transactionRepo := NewMock(t)
	items, txs := fixtures()
	itemRepo.EXPECT().FindAll(gomock.Any()).Return(items, nil)
	transactionRepo.EXPECT().FindAll(gomock.Any()).Return(txs, nil)

	report, err := service.UserReport(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 1, report.ActiveListings)
	assert.Equal(t, 1, report.PurchasesCount)
	assert.True(t, report.TotalPurchases.Equal(decimal.NewFromInt(40)))
}

func TestMarketReport(t *testing.T) {
	service, itemRepo, transactionRepo := NewMock(t)
	items, txs := fixtures()
	itemRepo.EXPECT().FindAll(gomock.Any()).Return(items, nil)
	transactionRepo.EXPECT().FindAll(gomock.Any()).Return(txs, nil)

	report, err := service.MarketReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalItems)
	assert.Equal(t, 2, report.ActiveSellers)
	assert.Equal(t, 1, report.TransactionCount)
}

func TestMarketReport_LoadError(t *testing.T) {
	service, itemRepo, transactionRepo := NewMock(t)
	itemRepo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("db error"))
	transactionRepo.EXPECT().FindAll(gomock.Any()).Return(nil, nil).AnyTimes()

	report, err := service.MarketReport(context.Background())
	assert.EqualError(t, err, "db error")
	assert.Nil(t, report)
}
