// pkg/database/postgres.go
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"BidRadar/pkg/config"
	"BidRadar/pkg/model"
)

// Store 审计数据的postgres存储
type Store struct {
	db *gorm.DB
}

// NewStore 创建数据库连接并迁移审计表
func NewStore(cfg *config.Config) (*Store, error) {
	dbCfg := cfg.Database

	// 构建连接字符串
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.DBName, dbCfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 连接池参数
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := db.AutoMigrate(&model.AuditRecord{}, &model.CampaignActionRecord{}); err != nil {
		return nil, fmt.Errorf("迁移审计表失败: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordBid 保存出价审计记录
func (s *Store) RecordBid(rec model.AuditRecord) error {
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("保存出价审计失败: %w", err)
	}
	return nil
}

// RecordAction 保存活动动作记录
func (s *Store) RecordAction(rec model.CampaignActionRecord) error {
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("保存活动动作失败: %w", err)
	}
	return nil
}

// Flush 数据库写入是即时的，无需落盘动作
func (s *Store) Flush() error {
	return nil
}

// RecentAuditRecords 查询最近的出价审计记录
func (s *Store) RecentAuditRecords(profileID string, limit int) ([]model.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.Order("created_at DESC").Limit(limit)
	if profileID != "" {
		query = query.Where("profile_id = ?", profileID)
	}

	var records []model.AuditRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询审计记录失败: %w", err)
	}
	return records, nil
}

// RecentCampaignActions 查询最近的活动动作记录
func (s *Store) RecentCampaignActions(profileID string, limit int) ([]model.CampaignActionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.Order("created_at DESC").Limit(limit)
	if profileID != "" {
		query = query.Where("profile_id = ?", profileID)
	}

	var records []model.CampaignActionRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询活动动作失败: %w", err)
	}
	return records, nil
}
