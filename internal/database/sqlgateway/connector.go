package sqlgateway

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrDatabaseUnreachable = errors.New("database did not answer")

const (
	DefaultConnectionAttempts    = 10
	DefaultConnectionTimeout     = 60 * time.Second
	DefaultConnectionAttemptStep = 2 * time.Second
)

type ConnectOptions struct {
	MaxAttempts int
	MaxTimeout  time.Duration
	RetryStep   time.Duration
}

// backOff is the pause after a failed attempt, it grows by one step per attempt
func (o *ConnectOptions) backOff(attempt int) time.Duration {
	return time.Duration(attempt) * o.RetryStep
}

func NewDefaultConnectOptions() *ConnectOptions {
	return &ConnectOptions{
		MaxAttempts: DefaultConnectionAttempts,
		MaxTimeout:  DefaultConnectionTimeout,
		RetryStep:   DefaultConnectionAttemptStep,
	}
}

type SQLConnector interface {
	Connect(ctx context.Context) (*sqlx.DB, error)
	Timeout() time.Duration
	Close() error
}

// RetryingConnector pings the database until it answers or
// the attempts run out, the first successful result is cached.
type RetryingConnector struct {
	options   *ConnectOptions
	db        *sqlx.DB
	ping      func(ctx context.Context, db *sqlx.DB) error
	connected bool
}

var _ SQLConnector = (*RetryingConnector)(nil)

func MakeRetryingConnector(db *sqlx.DB, options *ConnectOptions) *RetryingConnector {
	if options == nil {
		options = NewDefaultConnectOptions()
	}

	return &RetryingConnector{db: db, options: options, ping: ping}
}

func (c *RetryingConnector) Timeout() time.Duration {
	return c.options.MaxTimeout
}

func (c *RetryingConnector) Connect(ctx context.Context) (*sqlx.DB, error) {
	if c.connected {
		return c.db, nil
	}

	if c.db == nil {
		return nil, ErrNoDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, c.options.MaxTimeout)
	defer cancel()

	if err := c.waitForDatabase(ctx); err != nil {
		return nil, errors.Wrap(err, "could not establish DB connection")
	}

	c.connected = true

	return c.db, nil
}

// waitForDatabase pings until the database answers, a cancelled
// context stops the waiting between attempts
func (c *RetryingConnector) waitForDatabase(ctx context.Context) error {
	attempts := c.options.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = c.ping(ctx, c.db); lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(c.options.backOff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrapf(ctx.Err(), "stopped after attempt %d: %s", attempt, lastErr)
		case <-timer.C:
		}
	}

	return errors.Wrapf(ErrDatabaseUnreachable, "%d attempts, last error: %s", attempts, lastErr)
}

func (c *RetryingConnector) Close() error {
	if c.db == nil {
		return nil
	}

	if err := c.db.Close(); err != nil {
		return errors.Wrap(err, "retrying connector could not close the database")
	}

	return nil
}
