package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/router"
	"github.com/habitlog/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminUsername = "admin"
	adminPassword = "e2e-secret"
	baseURL       = "http://habitlog.test"
)

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func (c *localClient) getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return c.doJSON(t, req, out)
}

func (c *localClient) sendJSON(t *testing.T, method, path string, payload, out any) int {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(t, req, out)
}

func (c *localClient) doJSON(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("failed to decode %s %s response %q: %v", req.Method, req.URL.Path, body, err)
		}
	}
	return resp.StatusCode
}

func setupSuite(t *testing.T) *localClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Habit{}, &db.AppSetting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	db.DB = gdb

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := gdb.Create(&db.User{Username: adminUsername, Password: string(hashed)}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	cfg := config.AppConfig{
		SessionSecret: "e2e-session-secret",
		StaticDir:     t.TempDir(),
	}

	engine := router.SetupRouter(cfg)

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return newLocalClient(engine)
}

func login(t *testing.T, client *localClient) {
	t.Helper()

	form := url.Values{}
	form.Set("username", adminUsername)
	form.Set("password", adminPassword)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/admin/login", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to build login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", resp.StatusCode)
	}
}

func TestHabitTrackerEndToEnd(t *testing.T) {
	client := setupSuite(t)

	// 未登录访问 API 被拒绝
	if status := client.getJSON(t, "/admin/api/habits", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", status)
	}

	login(t, client)

	// 创建习惯
	var created struct {
		Habit struct {
			ID string `json:"id"`
		} `json:"habit"`
	}
	status := client.sendJSON(t, http.MethodPost, "/admin/api/habits", map[string]any{
		"name":     "晨跑",
		"category": "health",
		"time":     "morning",
	}, &created)
	if status != http.StatusOK || created.Habit.ID == "" {
		t.Fatalf("failed to create habit: status=%d id=%q", status, created.Habit.ID)
	}

	// 连续三天打卡，最后一天应触发里程碑事件
	today := time.Now().In(time.Local)
	var toggled struct {
		Habit struct {
			Streak     int `json:"streak"`
			BestStreak int `json:"best_streak"`
		} `json:"habit"`
		Events []service.Event `json:"events"`
	}
	for offset := 2; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset).Format("2006-01-02")
		status = client.sendJSON(t, http.MethodPost,
			fmt.Sprintf("/admin/api/habits/%s/toggle", created.Habit.ID),
			map[string]any{"date": date}, &toggled)
		if status != http.StatusOK {
			t.Fatalf("toggle %s failed with status %d", date, status)
		}
	}

	if toggled.Habit.Streak != 3 || toggled.Habit.BestStreak != 3 {
		t.Fatalf("expected streak 3/3 after three days, got %+v", toggled.Habit)
	}
	if len(toggled.Events) != 1 || toggled.Events[0].Type != service.EventMilestone || toggled.Events[0].Streak != 3 {
		t.Fatalf("expected milestone event, got %v", toggled.Events)
	}

	// 仪表盘统计
	var analytics struct {
		MainGoal        string `json:"main_goal"`
		MonthlyProgress int    `json:"monthly_progress"`
		Summary         struct {
			CurrentStreak  int `json:"current_streak"`
			BestStreak     int `json:"best_streak"`
			CompletedToday int `json:"completed_today"`
			TotalHabits    int `json:"total_habits"`
		} `json:"summary"`
		Daily struct {
			Labels []string `json:"labels"`
			Data   []int    `json:"data"`
		} `json:"daily"`
		Weekly struct {
			Data []int `json:"data"`
		} `json:"weekly"`
	}
	if status := client.getJSON(t, "/admin/api/analytics", &analytics); status != http.StatusOK {
		t.Fatalf("analytics failed with status %d", status)
	}

	if analytics.MainGoal != service.DefaultMainGoal {
		t.Fatalf("expected default main goal, got %q", analytics.MainGoal)
	}
	if analytics.Summary.CurrentStreak != 3 || analytics.Summary.CompletedToday != 1 || analytics.Summary.TotalHabits != 1 {
		t.Fatalf("unexpected summary: %+v", analytics.Summary)
	}
	if len(analytics.Daily.Data) != 7 || analytics.Daily.Data[6] != 1 {
		t.Fatalf("unexpected daily series: %v", analytics.Daily.Data)
	}
	if len(analytics.Weekly.Data) != 7 {
		t.Fatalf("unexpected weekly series: %v", analytics.Weekly.Data)
	}

	// 更新主目标
	var goal struct {
		Goal string `json:"goal"`
	}
	if status := client.sendJSON(t, http.MethodPut, "/admin/api/goal", map[string]any{"goal": "每天进步一点点"}, &goal); status != http.StatusOK {
		t.Fatalf("update goal failed with status %d", status)
	}
	if goal.Goal != "每天进步一点点" {
		t.Fatalf("unexpected goal: %q", goal.Goal)
	}

	// 导出快照并重新导入
	var snapshot service.TrackerSnapshot
	if status := client.getJSON(t, "/admin/api/snapshot", &snapshot); status != http.StatusOK {
		t.Fatalf("export failed with status %d", status)
	}
	if len(snapshot.Habits) != 1 || snapshot.MainGoal != "每天进步一点点" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	var imported struct {
		Imported int `json:"imported"`
	}
	if status := client.sendJSON(t, http.MethodPost, "/admin/api/snapshot", snapshot, &imported); status != http.StatusOK {
		t.Fatalf("import failed with status %d", status)
	}
	if imported.Imported != 1 {
		t.Fatalf("expected 1 imported habit, got %d", imported.Imported)
	}

	var habits struct {
		Habits []struct {
			ID     string `json:"id"`
			Streak int    `json:"streak"`
		} `json:"habits"`
	}
	if status := client.getJSON(t, "/admin/api/habits", &habits); status != http.StatusOK {
		t.Fatalf("list failed with status %d", status)
	}
	if len(habits.Habits) != 1 || habits.Habits[0].ID != created.Habit.ID || habits.Habits[0].Streak != 3 {
		t.Fatalf("round trip lost state: %+v", habits.Habits)
	}

	// 登出后会话失效
	if status := client.getJSON(t, "/admin/logout", nil); status != http.StatusOK {
		t.Fatalf("logout failed with status %d", status)
	}
	if status := client.getJSON(t, "/admin/api/habits", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}
