package model

import "time"

// AppSetting is a key/value row; the server-side stand-in for the browser
// localStorage the web client used to own (credential, store reference,
// document list).
type AppSetting struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
