package router

import (
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("habitlog_session", store))

	// 前端为静态单页应用，所有界面逻辑在浏览器内完成
	r.Static("/static", cfg.StaticDir)
	r.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := handler.NewAPI(db.DB)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.Login)
		admin.GET("/logout", handler.Logout)

		// 需要认证的 API 路由
		authed := admin.Group("/api")
		authed.Use(handler.AuthRequired())
		{
			authed.GET("/habits", api.ListHabits)
			authed.POST("/habits", api.CreateHabit)
			authed.GET("/habits/:id", api.GetHabit)
			authed.PUT("/habits/:id", api.UpdateHabit)
			authed.DELETE("/habits/:id", api.DeleteHabit)
			authed.POST("/habits/:id/toggle", api.ToggleHabit)

			authed.GET("/analytics", api.GetAnalytics)

			authed.GET("/goal", api.GetMainGoal)
			authed.PUT("/goal", api.UpdateMainGoal)

			authed.GET("/snapshot", api.ExportSnapshot)
			authed.POST("/snapshot", api.ImportSnapshot)
		}
	}

	return r
}
