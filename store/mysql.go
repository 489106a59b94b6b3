package store

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"notionsync/models"
)

const defaultHistoryLimit = 20

// MySQLStore 把每行同步结果写入 sync_logs 表
type MySQLStore struct {
	db *gorm.DB
}

func InitMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

func NewMySQLStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.SyncLog{})
}

func (s *MySQLStore) Record(ctx context.Context, batch *models.SyncBatch) error {
	logs := models.NewSyncLogs(batch)
	if len(logs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&logs).Error; err != nil {
		return fmt.Errorf("insert sync logs: %w", err)
	}
	return nil
}

// History 某个学校最近的同步记录，新的在前
func (s *MySQLStore) History(ctx context.Context, school string, limit int) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	if err := s.historyQuery(ctx, school, limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("query sync logs: %w", err)
	}
	return logs, nil
}

func (s *MySQLStore) historyQuery(ctx context.Context, school string, limit int) *gorm.DB {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.db.WithContext(ctx).
		Where("school = ?", school).
		Order("id desc").
		Limit(limit)
}
