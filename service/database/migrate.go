/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/model.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies compass-service/service/models, gorm.io/gorm
 * @refs service/init.go
 */

package database

import (
	"log/slog"

	"gorm.io/gorm"

	"compass-service/service/models"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	slog.Info("开始数据库迁移...")

	// 合规数据相关表
	err := db.AutoMigrate(
		&models.UploadBatch{},
		&models.ClientRecord{},
		&models.QualityReportRecord{},
	)
	if err != nil {
		return err
	}

	// 评估对话相关表
	err = db.AutoMigrate(
		&models.ConversationLog{},
	)
	if err != nil {
		return err
	}

	// 数据共享相关表
	err = db.AutoMigrate(
		&models.ApiKey{},
	)
	if err != nil {
		return err
	}

	slog.Info("数据库迁移完成")
	return nil
}
