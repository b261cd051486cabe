package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitNameRequired 在习惯名称为空时返回
	ErrHabitNameRequired = errors.New("habit name is required")
)

// 习惯分类与时间段为固定枚举，非法值在写入前回退到兜底项
var (
	habitCategories = []string{"health", "work", "learning", "personal", "other"}
	habitTimes      = []string{"morning", "afternoon", "evening", "anytime"}
)

// HabitService 负责 Habit 数据的增删改查
// 打卡与统计逻辑分别由 CompletionService/AnalyticsService 承担，保持职责单一
type HabitService struct {
	db *gorm.DB
}

// HabitInput 定义创建/更新习惯时可配置字段
type HabitInput struct {
	Name      string
	Category  string
	TimeOfDay string
	Notes     string
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB) *HabitService {
	return &HabitService{db: gdb}
}

// List 按创建顺序返回全部习惯
func (s *HabitService) List() ([]db.Habit, error) {
	var habits []db.Habit
	if err := s.db.Order("created_at ASC, id ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// Get 根据 PublicID 获取习惯
func (s *HabitService) Get(publicID string) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.Where("public_id = ?", strings.TrimSpace(publicID)).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// Create 新建习惯：分配 PublicID，连胜与打卡记录从零开始
func (s *HabitService) Create(input HabitInput) (*db.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrHabitNameRequired
	}

	habit := db.Habit{
		PublicID:       uuid.NewString(),
		Name:           name,
		Category:       normalizeCategory(input.Category),
		TimeOfDay:      normalizeTimeOfDay(input.TimeOfDay),
		Notes:          strings.TrimSpace(input.Notes),
		CompletedDates: db.DateList{},
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// Update 更新习惯的展示字段，打卡与连胜数据保持不变
func (s *HabitService) Update(publicID string, input HabitInput) (*db.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrHabitNameRequired
	}

	existing, err := s.Get(publicID)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Category = normalizeCategory(input.Category)
	existing.TimeOfDay = normalizeTimeOfDay(input.TimeOfDay)
	existing.Notes = strings.TrimSpace(input.Notes)

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return existing, nil
}

// Delete 删除习惯，不存在时返回 ErrHabitNotFound
func (s *HabitService) Delete(publicID string) error {
	existing, err := s.Get(publicID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(existing).Error; err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

func normalizeCategory(category string) string {
	trimmed := strings.ToLower(strings.TrimSpace(category))
	for _, candidate := range habitCategories {
		if trimmed == candidate {
			return candidate
		}
	}
	return "other"
}

func normalizeTimeOfDay(timeOfDay string) string {
	trimmed := strings.ToLower(strings.TrimSpace(timeOfDay))
	for _, candidate := range habitTimes {
		if trimmed == candidate {
			return candidate
		}
	}
	return "anytime"
}
