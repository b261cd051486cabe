package main

import (
	"log"
	"time"

	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/router"
	"github.com/habitlog/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	// 可选的 .env 文件，缺失时直接使用进程环境变量
	_ = godotenv.Load()

	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需创建管理员账号
	if err := db.EnsureUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 启动时执行一次月度处理：跨月后清零当前连胜
	event, err := service.NewRolloverService(db.DB).Run(time.Now().In(time.Local))
	if err != nil {
		log.Fatalf("failed to run month rollover: %v", err)
	}
	if event != nil {
		log.Printf("month rollover: streaks reset for %d-%02d", event.Year, event.Month)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
