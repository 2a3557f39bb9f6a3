package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// SQLite primary and extended result codes.
const (
	codeBusy             = 5
	codeConstraintPK     = 1555
	codeConstraintUnique = 2067
)

const (
	busyRetries     = 4
	busyInitialWait = 10 * time.Millisecond
	busyMaxWait     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// resultCode extracts the SQLite result code from a driver error.
func resultCode(err error) (int, bool) {
	var coded interface{ Code() int }
	if !errors.As(err, &coded) {
		return 0, false
	}
	return coded.Code(), true
}

func isBusy(err error) bool {
	if code, ok := resultCode(err); ok {
		return code&0xff == codeBusy
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

func isUniqueViolation(err error) bool {
	if code, ok := resultCode(err); ok {
		return code == codeConstraintUnique || code == codeConstraintPK
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// retryOnBusy runs op, retrying with exponential backoff while SQLite reports
// the database as locked. Other errors are returned immediately.
func retryOnBusy(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = busyInitialWait
	policy.MaxInterval = busyMaxWait
	policy.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, busyRetries), ctx))
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// parseTime decodes an RFC 3339 column. NULL and malformed values yield the
// zero time.
func parseTime(raw sql.NullString) time.Time {
	if !raw.Valid {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, raw.String)
	return t
}
