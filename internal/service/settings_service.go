package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMainGoal 是主目标未设置时的默认文案。
const DefaultMainGoal = "Daily Habit Tracker"

// ErrMainGoalRequired 在主目标为空时返回
var ErrMainGoalRequired = errors.New("main goal is required")

// SettingsService 提供主目标与月份标记等应用级设置的读写能力。
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 构造 SettingsService
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

// MainGoal 读取主目标，未设置时返回默认文案。
func (s *SettingsService) MainGoal() (string, error) {
	value, ok, err := s.get(db.SettingKeyMainGoal)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(value) == "" {
		return DefaultMainGoal, nil
	}
	return value, nil
}

// UpdateMainGoal 保存主目标，空文案直接拒绝。
func (s *SettingsService) UpdateMainGoal(goal string) (string, error) {
	trimmed := strings.TrimSpace(goal)
	if trimmed == "" {
		return "", ErrMainGoalRequired
	}

	if err := upsertSetting(s.db, db.SettingKeyMainGoal, trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// TrackedPeriod 读取上次月度处理时记录的月份与年份。
// ok 为 false 表示尚未记录过（首次启动）。
func (s *SettingsService) TrackedPeriod() (month, year int, ok bool, err error) {
	monthValue, monthOK, err := s.get(db.SettingKeyTrackedMonth)
	if err != nil {
		return 0, 0, false, err
	}
	yearValue, yearOK, err := s.get(db.SettingKeyTrackedYear)
	if err != nil {
		return 0, 0, false, err
	}
	if !monthOK || !yearOK {
		return 0, 0, false, nil
	}

	month, monthErr := strconv.Atoi(strings.TrimSpace(monthValue))
	year, yearErr := strconv.Atoi(strings.TrimSpace(yearValue))
	if monthErr != nil || yearErr != nil {
		// 历史数据损坏时按未记录处理，由调用方重新写入
		return 0, 0, false, nil
	}

	return month, year, true, nil
}

// SetTrackedPeriod 记录当前处理到的月份与年份。
func (s *SettingsService) SetTrackedPeriod(month, year int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, db.SettingKeyTrackedMonth, strconv.Itoa(month)); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeyTrackedYear, strconv.Itoa(year))
	})
}

func (s *SettingsService) get(key string) (string, bool, error) {
	var record db.AppSetting
	if err := s.db.Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return record.Value, true, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.AppSetting{Key: key, Value: value}
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
