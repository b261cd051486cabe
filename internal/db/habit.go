package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Habit 定义了习惯模型
// PublicID 为对外暴露的不可变标识，创建时分配
// Category/TimeOfDay 为固定枚举，便于前端筛选与图标映射
// CompletedDates 以 JSON 文本存储打卡日期集合（2006-01-02，无时间部分）
// Streak/BestStreak 由打卡引擎维护，任何操作后满足 BestStreak >= Streak
type Habit struct {
	gorm.Model
	PublicID       string   `gorm:"size:36;uniqueIndex;not null"`
	Name           string   `gorm:"not null"`
	Category       string   `gorm:"size:20"`
	TimeOfDay      string   `gorm:"size:20"`
	Notes          string   `gorm:"type:text"`
	CompletedDates DateList `gorm:"type:text"`
	Streak         int
	BestStreak     int
}

// DateList 表示无重复的打卡日期键集合，按 JSON 数组持久化。
// 顺序不参与语义，仅成员关系与数量有意义。
type DateList []string

// Value 实现 driver.Valuer，序列化为 JSON 文本。
func (d DateList) Value() (driver.Value, error) {
	if d == nil {
		d = DateList{}
	}
	data, err := json.Marshal([]string(d))
	if err != nil {
		return nil, fmt.Errorf("marshal date list: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner，空值视为无打卡记录。
func (d *DateList) Scan(value interface{}) error {
	if value == nil {
		*d = DateList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported date list source type")
	}

	if len(data) == 0 {
		*d = DateList{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("unmarshal date list: %w", err)
	}
	*d = DateList(list)
	return nil
}

// Contains 判断指定日期键是否已打卡。
func (d DateList) Contains(key string) bool {
	for _, item := range d {
		if item == key {
			return true
		}
	}
	return false
}
