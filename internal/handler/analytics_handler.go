package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// GetAnalytics 返回仪表盘所需的全部统计数据：
// 月度进度、连胜汇总以及最近 7 天与本周的图表序列
func (a *API) GetAnalytics(c *gin.Context) {
	now := time.Now().In(time.Local)

	stats, err := a.analytics.Dashboard(now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "计算统计信息失败")
		return
	}

	goal, err := a.settings.MainGoal()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载主目标失败")
		return
	}

	// 最近 7 天的横轴标签，最早一天在前，与 DailySeries 对齐
	dailyLabels := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		dailyLabels = append(dailyLabels, now.AddDate(0, 0, -i).Format("Mon"))
	}

	c.JSON(http.StatusOK, gin.H{
		"main_goal":        goal,
		"monthly_progress": stats.MonthlyProgress,
		"summary": gin.H{
			"current_streak":  stats.Summary.CurrentStreak,
			"best_streak":     stats.Summary.BestStreak,
			"completed_today": stats.Summary.CompletedToday,
			"total_habits":    stats.Summary.TotalHabits,
		},
		"daily": gin.H{
			"labels": dailyLabels,
			"data":   stats.DailySeries,
		},
		"weekly": gin.H{
			"labels": weekdayLabels,
			"data":   stats.WeeklySeries,
		},
		"generated_at": now.Format(time.RFC3339),
	})
}
