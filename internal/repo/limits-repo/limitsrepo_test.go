package limitsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	cols := []string{"id", "daily_limit_count", "daily_limit_amount", "monthly_limit_count", "monthly_limit_amount"}

	t.Run("Defaults row returned", func(t *testing.T) {
		count := int64(3)
		rows := pgxmock.NewRows(cols).AddRow(1, &count, nil, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnRows(rows)

		settings, err := repo.Get(context.Background())
		require.NoError(t, err)
		require.NotNil(t, settings.DailyLimitCount)
		assert.Equal(t, int64(3), *settings.DailyLimitCount)
		assert.Nil(t, settings.MonthlyLimitAmount)
	})

	t.Run("No defaults configured", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnError(pgx.ErrNoRows)

		settings, err := repo.Get(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, settings)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).WillReturnError(errors.New("database error"))

		_, err := repo.Get(context.Background())
		assert.Error(t, err)
	})
}
