package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"record not found", gorm.ErrRecordNotFound, shared.ErrNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"postgres undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "orders" does not exist`}, shared.ErrSchemaOutOfDate},
		{"postgres undefined column", fmt.Errorf("query: %w", &pgconn.PgError{Code: "42703"}), shared.ErrSchemaOutOfDate},
		{"mysql missing table", &mysql.MySQLError{Number: 1146, Message: "Table 'laundry.orders' doesn't exist"}, shared.ErrSchemaOutOfDate},
		{"sqlite missing column", errors.New("no such column: feedback_rating"), shared.ErrSchemaOutOfDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err, "Order"), tt.target)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil, "Order"))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23503"}
		assert.Same(t, err, translateError(err, "Order"))
	})

	t.Run("not found names the resource", func(t *testing.T) {
		assert.Equal(t, "Order not found", translateError(gorm.ErrRecordNotFound, "Order").Error())
	})
}

func TestSchemaOutOfDate_FromMissingTable(t *testing.T) {
	database, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	defer database.Close()

	_, err = NewGormOrderRepository(database.DB).FindByIDForTenant(context.Background(), uuid.New(), uuid.New())
	assert.True(t, shared.IsSchemaOutOfDate(err))
}

func TestGormServiceItemRepository_SchemaErrorFromPostgres(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	tenantID, id := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "service_items" WHERE tenant_id = \$1 AND id = \$2 ORDER BY "service_items"."id" LIMIT \$3`).
		WithArgs(tenantID, id, 1).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "service_items" does not exist`})

	_, err := NewGormServiceItemRepository(db.DB).FindByIDForTenant(context.Background(), tenantID, id)

	assert.True(t, shared.IsSchemaOutOfDate(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
