package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"TaskLink-Backend/internal/domain"
	"TaskLink-Backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	pg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(pg.New(pg.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	return New(gormDB, zap.NewNop()), mock
}

func TestGetLinkByCode(t *testing.T) {
	storage, mock := setupMockDB(t)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "urls" WHERE short_code = $1 AND is_active = $2 ORDER BY "urls"."id" LIMIT $3`)

	t.Run("active_link_found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "original_url", "short_code", "user_id", "is_active"}).
			AddRow("11111111-1111-1111-1111-111111111111", "https://example.com", "abc123", "22222222-2222-2222-2222-222222222222", true)
		mock.ExpectQuery(query).WithArgs("abc123", true, 1).WillReturnRows(rows)

		link, err := storage.GetLinkByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", link.OriginalURL)
		assert.Equal(t, "abc123", link.ShortCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("nope", true, 1).WillReturnError(gorm.ErrRecordNotFound)

		link, err := storage.GetLinkByCode(ctx, "nope")
		assert.Nil(t, link)
		assert.ErrorIs(t, err, repository.ErrCodeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database_error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("abc123", true, 1).WillReturnError(errors.New("connection timeout"))

		link, err := storage.GetLinkByCode(ctx, "abc123")
		assert.Nil(t, link)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrCodeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCodeExists(t *testing.T) {
	storage, mock := setupMockDB(t)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT count(*) FROM "urls" WHERE short_code = $1`)

	t.Run("exists", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := storage.CodeExists(ctx, "abc123")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("free", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("fresh77").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := storage.CodeExists(ctx, "fresh77")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeactivateLink(t *testing.T) {
	storage, mock := setupMockDB(t)
	ctx := context.Background()

	exec := regexp.QuoteMeta(`UPDATE "urls" SET "is_active"=$1 WHERE short_code = $2 AND is_active = $3`)

	t.Run("deactivated", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(exec).WithArgs(false, "abc123", true).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := storage.DeactivateLink(ctx, "abc123")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already_inactive_or_missing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(exec).WithArgs(false, "gone", true).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := storage.DeactivateLink(ctx, "gone")
		assert.ErrorIs(t, err, repository.ErrCodeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordClick(t *testing.T) {
	storage, mock := setupMockDB(t)
	ctx := context.Background()

	ip := "203.0.113.9"
	ua := "curl/8.4.0"
	device := "bot"
	click := &domain.Click{
		URLID:      "11111111-1111-1111-1111-111111111111",
		IP:         &ip,
		UserAgent:  &ua,
		DeviceType: &device,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "clicks" ("url_id","ip","user_agent","device_type","created_at") VALUES ($1,$2,$3,$4,$5) RETURNING "id"`)).
		WithArgs(click.URLID, &ip, &ua, &device, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	err := storage.RecordClick(ctx, click)
	require.NoError(t, err)
	assert.Equal(t, int64(1), click.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	storage, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("ghost@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	user, err := storage.GetUserByEmail(ctx, "ghost@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
