package service

import (
	"fmt"
	"time"

	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
)

const dateKeyFormat = "2006-01-02"

// 连胜达到这些天数时向前端发送庆祝通知
var streakMilestones = []int{3, 7, 14, 21, 30, 60, 90}

// CompletionService 负责按天打卡/取消打卡并维护连胜数据
type CompletionService struct {
	db *gorm.DB
}

// NewCompletionService 构造 CompletionService
func NewCompletionService(gdb *gorm.DB) *CompletionService {
	return &CompletionService{db: gdb}
}

// Toggle 切换指定习惯在 today 当天的打卡状态并持久化。
// today 由调用方注入而非内部读取当前时间，便于测试与补打卡。
func (s *CompletionService) Toggle(publicID string, today time.Time) (*db.Habit, []Event, error) {
	habit, err := NewHabitService(s.db).Get(publicID)
	if err != nil {
		return nil, nil, err
	}

	events := ApplyToggle(habit, today)

	if err := s.db.Save(habit).Error; err != nil {
		return nil, nil, fmt.Errorf("save habit completion: %w", err)
	}

	return habit, events, nil
}

// ApplyToggle 对内存中的习惯应用打卡切换规则，返回产生的通知事件。
//
// 连胜只在 today/yesterday 的边界上调整，信任此前存储的 streak 值，
// 不会基于 CompletedDates 做全量重算。取消打卡时若昨天仍有记录，
// 连胜保持不变——已存储的连胜已经覆盖到昨天，移除今天不回溯整条链。
func ApplyToggle(habit *db.Habit, today time.Time) []Event {
	todayKey := DateKey(today)
	yesterdayKey := DateKey(today.AddDate(0, 0, -1))

	if habit.CompletedDates.Contains(todayKey) {
		habit.CompletedDates = removeDateKey(habit.CompletedDates, todayKey)

		if !habit.CompletedDates.Contains(yesterdayKey) {
			habit.Streak = 0
		}
		return nil
	}

	habit.CompletedDates = append(habit.CompletedDates, todayKey)

	if habit.CompletedDates.Contains(yesterdayKey) {
		habit.Streak++
		if habit.Streak > habit.BestStreak {
			habit.BestStreak = habit.Streak
		}
	} else {
		habit.Streak = 1
		if habit.BestStreak < 1 {
			habit.BestStreak = 1
		}
	}

	if isStreakMilestone(habit.Streak) {
		return []Event{{Type: EventMilestone, Streak: habit.Streak}}
	}
	return nil
}

// DateKey 将时间归一化为不含时间部分的日期键。
func DateKey(t time.Time) string {
	return t.Format(dateKeyFormat)
}

func removeDateKey(dates db.DateList, key string) db.DateList {
	filtered := make(db.DateList, 0, len(dates))
	for _, item := range dates {
		if item != key {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func isStreakMilestone(streak int) bool {
	for _, milestone := range streakMilestones {
		if streak == milestone {
			return true
		}
	}
	return false
}
