package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Preference keys persisted across sessions
const (
	PreferenceWorkspaceDrawerOpen = "workspace_drawer_open"
	PreferenceBoardDrawerOpen     = "board_drawer_open"
)

// UIPreference is a persisted UI flag. Value holds JSON.
type UIPreference struct {
	Key       string         `gorm:"column:pref_key;type:varchar(100);primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:json;not null" json:"value"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for UIPreference
func (UIPreference) TableName() string {
	return "ui_preferences"
}
