package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/db"
	"github.com/habitlog/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	createDemoUser()
	createDemoHabits()

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
}

// 创建管理员用户
func createDemoUser() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}
	db.DB.Create(&admin)
}

// 创建带近期打卡记录的演示习惯
func createDemoHabits() {
	var count int64
	db.DB.Model(&db.Habit{}).Count(&count)
	if count > 0 {
		fmt.Println("习惯已存在，跳过创建")
		return
	}

	today := time.Now().In(time.Local)

	demos := []struct {
		name      string
		category  string
		timeOfDay string
		notes     string
		days      int // 截至今天连续打卡的天数
	}{
		{"晨跑", "health", "morning", "每天 **5 公里**，周末放松配速", 5},
		{"阅读", "learning", "evening", "技术书和非虚构交替", 3},
		{"写日记", "personal", "evening", "", 1},
		{"学英语", "learning", "anytime", "- 背单词\n- 跟读 15 分钟", 0},
	}

	for _, demo := range demos {
		habit := db.Habit{
			PublicID:       uuid.NewString(),
			Name:           demo.name,
			Category:       demo.category,
			TimeOfDay:      demo.timeOfDay,
			Notes:          demo.notes,
			CompletedDates: db.DateList{},
		}

		for i := demo.days - 1; i >= 0; i-- {
			habit.CompletedDates = append(habit.CompletedDates, service.DateKey(today.AddDate(0, 0, -i)))
		}
		habit.Streak = demo.days
		habit.BestStreak = demo.days

		if err := db.DB.Create(&habit).Error; err != nil {
			log.Fatal("创建演示习惯失败:", err)
		}
	}

	fmt.Printf("习惯: %d 个演示习惯\n", len(demos))
}
