package service

import (
	"fmt"
	"math"
	"time"

	"github.com/habitlog/internal/db"
	"gorm.io/gorm"
)

// AnalyticsService 负责习惯的月度完成率、连胜汇总与趋势序列计算。
// 所有计算均为只读纯函数，参考日期由调用方注入。
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 构造 AnalyticsService
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// StreakSummary 汇总仪表盘顶部展示的连胜数据。
// CurrentStreak 取所有习惯连胜的最小值：任何一个习惯掉队，整体连胜就降到它的水平。
type StreakSummary struct {
	CurrentStreak  int
	BestStreak     int
	CompletedToday int
	TotalHabits    int
}

// DashboardStats 打包一次仪表盘刷新所需的全部统计数据。
type DashboardStats struct {
	MonthlyProgress int
	Summary         StreakSummary
	DailySeries     []int
	WeeklySeries    []int
}

// Dashboard 读取全部习惯并计算仪表盘统计。
func (s *AnalyticsService) Dashboard(now time.Time) (*DashboardStats, error) {
	var habits []db.Habit
	if err := s.db.Order("created_at ASC, id ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("load habits for analytics: %w", err)
	}

	return &DashboardStats{
		MonthlyProgress: MonthlyProgress(habits, now),
		Summary:         Summarize(habits, now),
		DailySeries:     DailySeries(habits, now),
		WeeklySeries:    WeeklySeries(habits, now),
	}, nil
}

// HabitCompletionRate 计算单个习惯在参考日期所在月份的完成率（整数百分比）。
// 分母为该月总天数，而非已过去的天数。
func HabitCompletionRate(habit db.Habit, referenceDate time.Time) int {
	daysInMonth := daysIn(referenceDate)
	completed := completionsInMonth(habit, referenceDate)
	return roundPercent(completed, daysInMonth)
}

// MonthlyProgress 计算全部习惯的月度总体进度：
// 实际完成数 / (习惯数 × 本月已过天数)。没有习惯时返回 0。
func MonthlyProgress(habits []db.Habit, referenceDate time.Time) int {
	totalPossible := len(habits) * referenceDate.Day()
	if totalPossible == 0 {
		return 0
	}

	totalCompleted := 0
	for _, habit := range habits {
		totalCompleted += completionsInMonth(habit, referenceDate)
	}

	return roundPercent(totalCompleted, totalPossible)
}

// Summarize 计算连胜汇总：短板连胜、历史最佳与今日完成数。
func Summarize(habits []db.Habit, today time.Time) StreakSummary {
	summary := StreakSummary{TotalHabits: len(habits)}
	if len(habits) == 0 {
		return summary
	}

	todayKey := DateKey(today)
	minStreak := habits[0].Streak

	for _, habit := range habits {
		if habit.Streak < minStreak {
			minStreak = habit.Streak
		}
		if habit.BestStreak > summary.BestStreak {
			summary.BestStreak = habit.BestStreak
		}
		if habit.CompletedDates.Contains(todayKey) {
			summary.CompletedToday++
		}
	}

	summary.CurrentStreak = minStreak
	return summary
}

// DailySeries 返回截至参考日期（含当天）的最近 7 天每日完成数，最早一天在前。
func DailySeries(habits []db.Habit, referenceDate time.Time) []int {
	series := make([]int, 0, 7)

	for i := 6; i >= 0; i-- {
		dayKey := DateKey(referenceDate.AddDate(0, 0, -i))
		count := 0
		for _, habit := range habits {
			if habit.CompletedDates.Contains(dayKey) {
				count++
			}
		}
		series = append(series, count)
	}

	return series
}

// WeeklySeries 统计参考日期所在周（周一至周日）内每个星期几的完成数，
// 返回按 Sun..Sat 索引的 7 个桶。周日归属于 6 天前开始的那一周。
func WeeklySeries(habits []db.Habit, referenceDate time.Time) []int {
	buckets := make([]int, 7)

	day := startOfDay(referenceDate)
	weekday := int(day.Weekday())
	var weekStart time.Time
	if weekday == 0 {
		weekStart = day.AddDate(0, 0, -6)
	} else {
		weekStart = day.AddDate(0, 0, -(weekday - 1))
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	for _, habit := range habits {
		for _, key := range habit.CompletedDates {
			date, err := time.ParseInLocation(dateKeyFormat, key, referenceDate.Location())
			if err != nil {
				continue
			}
			if date.Before(weekStart) || date.After(weekEnd) {
				continue
			}
			buckets[int(date.Weekday())]++
		}
	}

	return buckets
}

func completionsInMonth(habit db.Habit, referenceDate time.Time) int {
	count := 0
	for _, key := range habit.CompletedDates {
		date, err := time.ParseInLocation(dateKeyFormat, key, referenceDate.Location())
		if err != nil {
			continue
		}
		if date.Year() == referenceDate.Year() && date.Month() == referenceDate.Month() {
			count++
		}
	}
	return count
}

func daysIn(referenceDate time.Time) int {
	return time.Date(referenceDate.Year(), referenceDate.Month()+1, 0, 0, 0, 0, 0, referenceDate.Location()).Day()
}

func roundPercent(completed, possible int) int {
	if possible <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(possible)))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
