package implementation

import (
	"context"

	"fitocharity-chatbot-be/internal/model"
	"fitocharity-chatbot-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new settings repository
func NewSettingRepository(db *gorm.DB) contract.ISettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var m model.AppSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	m := model.AppSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&m).Error
}

func (r *settingRepository) SetMany(ctx context.Context, values map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			m := model.AppSetting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *settingRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("key IN ?", keys).Delete(&model.AppSetting{}).Error
	})
}
