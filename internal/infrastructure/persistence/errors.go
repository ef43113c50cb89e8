package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/laundry/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for objects the schema does not have
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// MySQL error numbers for unknown tables and columns
const (
	mysqlNoSuchTable   = 1146
	mysqlUnknownColumn = 1054
)

// translateError maps driver and gorm errors onto domain errors. resource
// names the entity in NOT_FOUND messages.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, resource)
	case IsSchemaError(err):
		return fmt.Errorf("%w: %v", shared.ErrSchemaOutOfDate, err)
	}
	return err
}

// IsSchemaError reports whether err comes from a missing table or column,
// which means the migrations have not been applied
func IsSchemaError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable || pgErr.Code == pgUndefinedColumn
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable || myErr.Number == mysqlUnknownColumn
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column")
}

// isDuplicate reports whether err is a unique constraint violation
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
