package itemrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/marketplace/internal/domain"
)

var (
	createdAt = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	columns   = []string{"id", "name", "description", "category", "price", "seller_id", "seller_name", "is_available", "image", "created_at"}
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func catalogRows() *pgxmock.Rows {
	return pgxmock.NewRows(columns).
		AddRow("1", "Vintage Camera", "Classic film camera", "Electronics", decimal.NewFromInt(120), "2", "alice_smith", true, "", createdAt).
		AddRow("2", "Tennis Racket", "Barely used", "Sports", decimal.NewFromInt(40), "3", "bob_johnson", false, "", createdAt)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	item := &domain.Item{
		ID: "1", Name: "Lamp", Category: "Home", Price: decimal.NewFromInt(25),
		SellerID: "2", SellerName: "alice_smith", IsAvailable: true, CreatedAt: createdAt,
	}
	query := regexp.QuoteMeta("INSERT INTO items")

	mock.ExpectExec(query).
		WithArgs("1", "Lamp", "", "Home", item.Price, "2", "alice_smith", true, "", createdAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	result, err := repo.Create(context.Background(), item)
	assert.NoError(t, err)
	assert.Equal(t, item, result)

	mock.ExpectExec(query).WillReturnError(errors.New("fk violation"))
	result, err = repo.Create(context.Background(), item)
	assert.Error(t, err)
	assert.Nil(t, result)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("SELECT " + itemColumns + " FROM items WHERE id = $1")

	tests := []struct {
		name      string
		id        string
		mockSetup func()
		expectErr bool
		expected  string
	}{
		{
			name: "Found",
			id:   "1",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("1").WillReturnRows(catalogRows())
			},
			expected: "Vintage Camera",
		},
		{
			name: "Not found",
			id:   "404",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("404").WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			id:   "1",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("1").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			item, err := repo.FindByID(context.Background(), tt.id)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.expected == "" {
				assert.Nil(t, item)
				return
			}
			assert.Equal(t, tt.expected, item.Name)
			assert.True(t, item.Price.Equal(decimal.NewFromInt(120)))
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAll(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM items ORDER BY seq")).WillReturnRows(catalogRows())
	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.False(t, items[1].IsAvailable)

	mock.ExpectQuery(regexp.QuoteMeta("FROM items ORDER BY seq")).WillReturnError(errors.New("database error"))
	_, err = repo.FindAll(context.Background())
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindBySeller(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE seller_id = $1 ORDER BY seq")).
		WithArgs("9").
		WillReturnRows(pgxmock.NewRows(columns))
	items, err := repo.FindBySeller(context.Background(), "9")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, mock := NewMock(t)
	item := &domain.Item{ID: "1", Name: "Renamed", Category: "Electronics", Price: decimal.NewFromInt(99), IsAvailable: true}
	query := regexp.QuoteMeta("UPDATE items")

	mock.ExpectExec(query).
		WithArgs("Renamed", "", "Electronics", item.Price, true, "", "1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.Update(context.Background(), item))

	mock.ExpectExec(query).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Update(context.Background(), item), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkSold(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("UPDATE items SET is_available = FALSE WHERE id = $1 AND is_available")

	tests := []struct {
		name      string
		mockSetup func()
		expected  bool
		expectErr bool
	}{
		{
			name: "Flipped",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expected: true,
		},
		{
			name: "Already sold",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("1").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("1").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			sold, err := repo.MarkSold(context.Background(), "1")
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, sold)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("DELETE FROM items WHERE id = $1")

	mock.ExpectExec(query).WithArgs("1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	deleted, err := repo.Delete(context.Background(), "1")
	assert.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec(query).WithArgs("1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	deleted, err = repo.Delete(context.Background(), "1")
	assert.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
