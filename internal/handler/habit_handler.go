package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/service"
)

const dateFormat = "2006-01-02"

type habitPayload struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Time     string `json:"time"`
	Notes    string `json:"notes"`
}

type togglePayload struct {
	Date string `json:"date"` // 2006-01-02，可选，默认今天
}

// ListHabits 返回习惯列表 JSON，附带卡片展示所需的完成率与今日状态
func (a *API) ListHabits(c *gin.Context) {
	habits, err := a.habits.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	now := time.Now().In(time.Local)
	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit, now))
	}

	c.JSON(http.StatusOK, gin.H{"habits": items})
}

// GetHabit 返回单个习惯详情，备注渲染为 HTML
func (a *API) GetHabit(c *gin.Context) {
	habit, err := a.habits.Get(c.Param("id"))
	if err != nil {
		handleHabitError(c, err)
		return
	}

	now := time.Now().In(time.Local)
	payload := habitToPayload(*habit, now)

	if strings.TrimSpace(habit.Notes) != "" {
		if rendered, err := renderMarkdown(habit.Notes); err == nil {
			payload["notes_html"] = rendered
		}
	}

	c.JSON(http.StatusOK, gin.H{"habit": payload})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	input, ok := parseHabitInput(c)
	if !ok {
		return
	}

	habit, err := a.habits.Create(input)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit, time.Now().In(time.Local))})
}

// UpdateHabit 更新习惯的展示字段，打卡数据不受影响
func (a *API) UpdateHabit(c *gin.Context) {
	input, ok := parseHabitInput(c)
	if !ok {
		return
	}

	habit, err := a.habits.Update(c.Param("id"), input)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit, time.Now().In(time.Local))})
}

// DeleteHabit 删除习惯
func (a *API) DeleteHabit(c *gin.Context) {
	if err := a.habits.Delete(c.Param("id")); err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ToggleHabit 切换指定习惯当天的打卡状态，返回更新后的习惯与通知事件
func (a *API) ToggleHabit(c *gin.Context) {
	var payload togglePayload
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	}

	today := time.Now().In(time.Local)
	if strings.TrimSpace(payload.Date) != "" {
		parsed, err := time.ParseInLocation(dateFormat, payload.Date, time.Local)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的打卡日期")
			return
		}
		today = parsed
	}

	habit, events, err := a.completions.Toggle(c.Param("id"), today)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	if events == nil {
		events = []service.Event{}
	}

	c.JSON(http.StatusOK, gin.H{
		"habit":  habitToPayload(*habit, today),
		"events": events,
	})
}

func parseHabitInput(c *gin.Context) (service.HabitInput, bool) {
	var payload habitPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.HabitInput{}, false
	}

	return service.HabitInput{
		Name:      payload.Name,
		Category:  payload.Category,
		TimeOfDay: payload.Time,
		Notes:     payload.Notes,
	}, true
}

func habitToPayload(habit db.Habit, now time.Time) gin.H {
	return gin.H{
		"id":              habit.PublicID,
		"name":            habit.Name,
		"category":        habit.Category,
		"time":            habit.TimeOfDay,
		"notes":           habit.Notes,
		"streak":          habit.Streak,
		"best_streak":     habit.BestStreak,
		"completed_dates": []string(habit.CompletedDates),
		"completed_today": habit.CompletedDates.Contains(service.DateKey(now)),
		"completion_rate": service.HabitCompletionRate(habit, now),
		"created_at":      habit.CreatedAt.Format(time.RFC3339),
	}
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, service.ErrHabitNameRequired):
		respondError(c, http.StatusBadRequest, "请输入习惯名称")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
