package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
)

// TrackerSnapshot 是应用状态的完整序列化形式，用于备份导出与导入。
type TrackerSnapshot struct {
	MainGoal     string          `json:"main_goal"`
	TrackedMonth int             `json:"tracked_month"`
	TrackedYear  int             `json:"tracked_year"`
	Habits       []HabitSnapshot `json:"habits"`
	ExportedAt   string          `json:"exported_at,omitempty"`
}

// HabitSnapshot 是 Habit 在快照中的平面表示。
type HabitSnapshot struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Time           string   `json:"time"`
	CompletedDates []string `json:"completed_dates"`
	Streak         int      `json:"streak"`
	BestStreak     int      `json:"best_streak"`
	Notes          string   `json:"notes,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// SnapshotService 负责应用状态的整体导出与导入。
type SnapshotService struct {
	db       *gorm.DB
	settings *SettingsService
}

// NewSnapshotService 构造 SnapshotService
func NewSnapshotService(gdb *gorm.DB) *SnapshotService {
	return &SnapshotService{db: gdb, settings: NewSettingsService(gdb)}
}

// Export 导出当前全部状态。
func (s *SnapshotService) Export(now time.Time) (*TrackerSnapshot, error) {
	goal, err := s.settings.MainGoal()
	if err != nil {
		return nil, err
	}

	trackedMonth, trackedYear, ok, err := s.settings.TrackedPeriod()
	if err != nil {
		return nil, err
	}
	if !ok {
		trackedMonth = int(now.Month())
		trackedYear = now.Year()
	}

	habits, err := NewHabitService(s.db).List()
	if err != nil {
		return nil, err
	}

	snapshot := &TrackerSnapshot{
		MainGoal:     goal,
		TrackedMonth: trackedMonth,
		TrackedYear:  trackedYear,
		Habits:       make([]HabitSnapshot, 0, len(habits)),
		ExportedAt:   now.Format(time.RFC3339),
	}

	for _, habit := range habits {
		snapshot.Habits = append(snapshot.Habits, HabitSnapshot{
			ID:             habit.PublicID,
			Name:           habit.Name,
			Category:       habit.Category,
			Time:           habit.TimeOfDay,
			CompletedDates: append([]string{}, habit.CompletedDates...),
			Streak:         habit.Streak,
			BestStreak:     habit.BestStreak,
			Notes:          habit.Notes,
			CreatedAt:      habit.CreatedAt.Format(time.RFC3339),
		})
	}

	return snapshot, nil
}

// Import 以快照整体替换当前状态，返回导入的习惯数量。
//
// 旧版本快照允许缺失 id/completed_dates/streak/best_streak，
// 导入时按约定补默认值：新 PublicID、空集合、0、0。
// 缺失名称的记录无法补默认值，直接跳过；任何情况下不因脏数据报错。
func (s *SnapshotService) Import(snapshot TrackerSnapshot) (int, error) {
	imported := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&db.Habit{}).Error; err != nil {
			return fmt.Errorf("clear habits: %w", err)
		}

		for _, item := range snapshot.Habits {
			habit, ok := sanitizeHabitSnapshot(item)
			if !ok {
				continue
			}
			if err := tx.Create(&habit).Error; err != nil {
				return fmt.Errorf("import habit %s: %w", habit.Name, err)
			}
			imported++
		}

		goal := strings.TrimSpace(snapshot.MainGoal)
		if goal == "" {
			goal = DefaultMainGoal
		}
		if err := upsertSetting(tx, db.SettingKeyMainGoal, goal); err != nil {
			return err
		}

		if snapshot.TrackedMonth >= 1 && snapshot.TrackedMonth <= 12 && snapshot.TrackedYear > 0 {
			if err := upsertSetting(tx, db.SettingKeyTrackedMonth, fmt.Sprintf("%d", snapshot.TrackedMonth)); err != nil {
				return err
			}
			if err := upsertSetting(tx, db.SettingKeyTrackedYear, fmt.Sprintf("%d", snapshot.TrackedYear)); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return imported, nil
}

func sanitizeHabitSnapshot(item HabitSnapshot) (db.Habit, bool) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return db.Habit{}, false
	}

	publicID := strings.TrimSpace(item.ID)
	if publicID == "" {
		publicID = uuid.NewString()
	}

	streak := item.Streak
	if streak < 0 {
		streak = 0
	}
	bestStreak := item.BestStreak
	if bestStreak < streak {
		bestStreak = streak
	}

	dates := make(db.DateList, 0, len(item.CompletedDates))
	for _, key := range item.CompletedDates {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" || dates.Contains(trimmed) {
			continue
		}
		dates = append(dates, trimmed)
	}

	return db.Habit{
		PublicID:       publicID,
		Name:           name,
		Category:       normalizeCategory(item.Category),
		TimeOfDay:      normalizeTimeOfDay(item.Time),
		Notes:          strings.TrimSpace(item.Notes),
		CompletedDates: dates,
		Streak:         streak,
		BestStreak:     bestStreak,
	}, true
}
