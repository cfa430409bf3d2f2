package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/campus-moments/config"
    "github.com/d60-Lab/campus-moments/internal/model"
)

// InitDB 按配置打开元数据库连接
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
    switch cfg.Database.Driver {
    case "postgres":
        return gorm.Open(postgres.Open(cfg.Database.DSN), gcfg)
    case "sqlite":
        return gorm.Open(sqlite.Open(cfg.Database.DSN), gcfg)
    default:
        return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
    }
}

// AutoMigrate 建元数据表（不含本地队列，队列自己管理 schema）
func AutoMigrate(db *gorm.DB) error {
    return db.AutoMigrate(&model.Post{}, &model.PostImage{}, &model.Like{}, &model.Comment{})
}
