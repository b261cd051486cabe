package service

import (
	"fmt"
	"time"

	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
)

// RolloverService 在月份变更时重置所有习惯的当前连胜（保留历史最佳）。
// 服务启动时执行一次，同一月份内重复执行为无操作。
type RolloverService struct {
	db       *gorm.DB
	settings *SettingsService
}

// NewRolloverService 构造 RolloverService
func NewRolloverService(gdb *gorm.DB) *RolloverService {
	return &RolloverService{db: gdb, settings: NewSettingsService(gdb)}
}

// Run 比较 now 与上次记录的月份/年份。
// 月份变更时清零所有连胜并更新标记，返回 rollover 事件；否则返回 nil。
// 首次运行（无标记）只写入当前月份，不做重置。
func (r *RolloverService) Run(now time.Time) (*Event, error) {
	currentMonth := int(now.Month())
	currentYear := now.Year()

	trackedMonth, trackedYear, ok, err := r.settings.TrackedPeriod()
	if err != nil {
		return nil, err
	}

	if !ok {
		if err := r.settings.SetTrackedPeriod(currentMonth, currentYear); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if trackedMonth == currentMonth && trackedYear == currentYear {
		return nil, nil
	}

	if err := r.db.Transaction(func(tx *gorm.DB) error {
		// 清零当前连胜，BestStreak 不受影响
		if err := tx.Model(&db.Habit{}).Where("1 = 1").Update("streak", 0).Error; err != nil {
			return fmt.Errorf("reset streaks: %w", err)
		}
		if err := upsertSetting(tx, db.SettingKeyTrackedMonth, fmt.Sprintf("%d", currentMonth)); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeyTrackedYear, fmt.Sprintf("%d", currentYear))
	}); err != nil {
		return nil, err
	}

	return &Event{Type: EventRollover, Month: currentMonth, Year: currentYear}, nil
}
