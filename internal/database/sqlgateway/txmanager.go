package sqlgateway

import (
	"context"
	"database/sql"
	"strings"

	"github.com/denismitr/ladder/migration"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrTxDeadlock = errors.New("transaction deadlock occurred")

// TxConfig - configures tx
type TxConfig struct {
	Iso sql.IsolationLevel
}

type TxConfigFunc func(*TxConfig)

// ISO - isolation level type
type ISO int

const (
	Default ISO = iota
	Serializable
	RepeatableRead
	ReadCommitted
)

// Isolation tx config function
func Isolation(iso ISO) TxConfigFunc {
	return func(txCfg *TxConfig) {
		switch iso {
		case Serializable:
			txCfg.Iso = sql.LevelSerializable
		case RepeatableRead:
			txCfg.Iso = sql.LevelRepeatableRead
		case ReadCommitted:
			txCfg.Iso = sql.LevelReadCommitted
		default:
			txCfg.Iso = sql.LevelDefault
		}
	}
}

// TxCallback receives the transaction as a migration session,
// returning an error rolls the transaction back.
type TxCallback func(context.Context, migration.Session) error

type TxManager interface {
	ReadWrite(context.Context, TxCallback, ...TxConfigFunc) error
}

type SqlxTxManager struct {
	db *sqlx.DB
}

var _ TxManager = (*SqlxTxManager)(nil)

func NewTxManager(db *sqlx.DB) *SqlxTxManager {
	return &SqlxTxManager{db: db}
}

// ReadWrite commits when the callback succeeds and rolls back otherwise
func (txm *SqlxTxManager) ReadWrite(
	ctx context.Context,
	cb TxCallback,
	cfn ...TxConfigFunc,
) error {
	txCfg := TxConfig{Iso: sql.LevelDefault}

	for _, fn := range cfn {
		fn(&txCfg)
	}

	return txm.isolate(ctx, cb, txCfg)
}

func (txm *SqlxTxManager) isolate(
	ctx context.Context,
	cb TxCallback,
	txCfg TxConfig,
) error {
	txx, err := txm.db.BeginTxx(ctx, &sql.TxOptions{Isolation: txCfg.Iso})
	if err != nil {
		return errors.Wrapf(err, "could not start transaction. isolation: %d", txCfg.Iso)
	}

	if err := cb(ctx, txx); err != nil {
		if isDeadlock(err) {
			err = errors.Wrapf(ErrTxDeadlock, "isolation: %d, on callback: %s", txCfg.Iso, err.Error())
		}

		if rbErr := txx.Rollback(); rbErr != nil {
			return errors.Wrap(err, " : ROLLBACK : "+rbErr.Error())
		}

		return err
	}

	if err := txx.Commit(); err != nil {
		if isDeadlock(err) {
			return errors.Wrapf(ErrTxDeadlock, "isolation: %d, on commit: %s", txCfg.Iso, err.Error())
		}

		return errors.Wrapf(err, "could not commit transaction. isolation: %d", txCfg.Iso)
	}

	return nil
}

func isDeadlock(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "deadlock")
}
