package db

import "gorm.io/gorm"

// AppSetting 存储应用级键值对，承载主目标与月份标记等全局状态。
type AppSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (AppSetting) TableName() string {
	return "app_settings"
}

const (
	// SettingKeyMainGoal 表示仪表盘顶部的主目标文案。
	SettingKeyMainGoal = "main_goal"
	// SettingKeyTrackedMonth 表示上次月度处理时的月份（1-12）。
	SettingKeyTrackedMonth = "tracked_month"
	// SettingKeyTrackedYear 表示上次月度处理时的年份。
	SettingKeyTrackedYear = "tracked_year"
)
