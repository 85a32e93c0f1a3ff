package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TXManager interface {
	Begin(ctx context.Context, fn func(ctx context.Context) error) error
}

type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type TxManager struct {
	db txBeginner
}

func NewTXManager(pool txBeginner) *TxManager {
	return &TxManager{db: pool}
}

// Begin runs fn inside a transaction. A nested call joins the outer one.
func (m *TxManager) Begin(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("can't begin tx: %w", err)
	}

	defer func() {
		p := recover()
		switch {
		case p != nil:
			_ = tx.Rollback(ctx)
			panic(p)
		case err != nil:
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				zap.L().Error("can't rollback tx", zap.Error(rbErr))
				err = fmt.Errorf("can't rollback tx: %w. original error: %w", rbErr, err)
			}
		default:
			if err = tx.Commit(ctx); err != nil {
				err = fmt.Errorf("can't commit tx: %w", err)
			}
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}
