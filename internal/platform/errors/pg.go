package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUndefinedTable = "42P01"

// pgCodes classifies the SQLSTATEs the sinks run into; anything else is ErrorCodeDB
var pgCodes = map[string]ErrorCode{
	"23505": ErrorCodeValidation,      // unique_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"22003": ErrorCodeInvalidArgument, // numeric_value_out_of_range
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// transient SQLSTATEs
var pgRetry = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57P03": true, // cannot_connect_now
}

// pgx sometimes reports these without a PgError in the chain
var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"terminating connection due to administrator command",
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// IsUndefinedTable reports a statement against a relation that does not exist
func IsUndefinedTable(err error) bool {
	pe, ok := pgError(err)
	return ok && pe.Code == pgUndefinedTable
}

// FromPostgres wraps a database error under the code its SQLSTATE maps to
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if pe, ok := pgError(err); ok {
		if c, mapped := pgCodes[pe.Code]; mapped {
			code = c
		}
	}
	return Wrap(err, code, msg)
}

func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports a transient database failure
// a cancelled or expired context is never retried
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		return pgRetry[pe.Code]
	}
	msg := strings.ToLower(Root(err).Error())
	for _, s := range retryText {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
