package persistence

import (
	"errors"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the ledger reacts to
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
)

// TranslateError maps driver and GORM errors onto domain errors.
// Domain errors and unknown errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return shared.ErrConflict
		case pgUniqueViolation:
			return shared.NewDomainError(shared.CodeAlreadyExists, "record already exists: "+pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return shared.NewDomainError(shared.CodeNotFound, "referenced record not found: "+pgErr.ConstraintName)
		case pgCheckViolation:
			return shared.NewDomainError(shared.CodeInvalidInput, "check constraint violated: "+pgErr.ConstraintName)
		}
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeNotFound, "referenced record not found")
	}
	return err
}

// IsRetryable reports whether err is a serialization failure or deadlock
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return errors.Is(err, shared.ErrConflict)
}
