package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cyberblog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSiteName 是未设置站点名称时的回退值。
const DefaultSiteName = "CyberBlog"

// SiteSettings 描述后台设置页可配置的站点信息。
type SiteSettings struct {
	SiteName   string
	AdminEmail string
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	db *gorm.DB
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(gdb *gorm.DB) *SystemSettingService {
	return &SystemSettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeySiteName,
	db.SettingKeyAdminEmail,
}

// GetSettings 读取系统设置，如未设置将返回默认值。
func (s *SystemSettingService) GetSettings(ctx context.Context) (SiteSettings, error) {
	result := SiteSettings{SiteName: DefaultSiteName}

	var records []db.SystemSetting
	if err := s.db.WithContext(ctx).Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteName = record.Value
			}
		case db.SettingKeyAdminEmail:
			result.AdminEmail = record.Value
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置，未填写站点名称时回退默认值。
func (s *SystemSettingService) UpdateSettings(ctx context.Context, input SiteSettings) (SiteSettings, error) {
	sanitized := SiteSettings{
		SiteName:   strings.TrimSpace(input.SiteName),
		AdminEmail: strings.TrimSpace(input.AdminEmail),
	}
	if sanitized.SiteName == "" {
		sanitized.SiteName = DefaultSiteName
	}
	if sanitized.AdminEmail != "" {
		email, err := normalizeEmail(sanitized.AdminEmail)
		if err != nil {
			return SiteSettings{}, err
		}
		sanitized.AdminEmail = email
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, db.SettingKeySiteName, sanitized.SiteName); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeyAdminEmail, sanitized.AdminEmail)
	})
	if err != nil {
		return SiteSettings{}, fmt.Errorf("update system settings: %w", err)
	}

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
