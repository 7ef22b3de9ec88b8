package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ahang1598/ai-interview-assistant/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestQueryHistoryRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryHistoryRepository(db)

	score := 0.42
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "query_history"`)).
		WithArgs(uint(1), nil, "问题", "回答", 0.42, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"query_history_id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.QueryHistory{
		UserID:          1,
		Query:           "问题",
		Answer:          "回答",
		SimilarityScore: &score,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryHistoryRepositoryCreateNilScore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryHistoryRepository(db)

	// 检索为空时相似度得分写入NULL
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "query_history"`)).
		WithArgs(uint(2), nil, "问题", "我不知道。", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"query_history_id"}).AddRow(2))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.QueryHistory{
		UserID: 2,
		Query:  "问题",
		Answer: "我不知道。",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryHistoryRepositoryGetByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueryHistoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "query_history"`)).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "query_history"`)).
		WithArgs(uint(1), 10).
		WillReturnRows(sqlmock.NewRows([]string{"query_history_id", "user_id", "query", "answer"}).
			AddRow(2, 1, "第二个问题", "第二个回答").
			AddRow(1, 1, "第一个问题", "第一个回答"))

	histories, total, err := repo.GetByUserID(context.Background(), 1, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, histories, 2)
	assert.Equal(t, "第二个问题", histories[0].Query)
	assert.NoError(t, mock.ExpectationsWereMet())
}
