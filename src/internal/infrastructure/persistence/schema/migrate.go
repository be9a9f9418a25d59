// Package schema 集中管理所有 GORM 模型與自動遷移。
package schema

import (
	"context"
	"log/slog"

	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/config"
	auditrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/audit"
	billingrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/billing"
	memberrepo "github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence/member"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Models 所有資料表模型
func Models() []interface{} {
	return []interface{}{
		&memberrepo.MemberGORM{},
		&billingrepo.TransactionGORM{},
		&auditrepo.AuditLogGORM{},
		&auditrepo.CheckInLogGORM{},
	}
}

// Migrate 自動遷移所有資料表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "failed to auto-migrate schema")
	}
	return nil
}

// Register 在 fx 啟動時依設定執行遷移
func Register(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, logger *slog.Logger) {
	if !cfg.Database.AutoMigrate {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := Migrate(db.WithContext(ctx)); err != nil {
				return err
			}
			logger.Info("database schema migrated", slog.String("driver", cfg.Database.Driver))
			return nil
		},
	})
}
