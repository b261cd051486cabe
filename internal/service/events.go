package service

// 事件类型常量，打卡引擎与月度处理通过它们向前端发送通知。
const (
	EventMilestone = "milestone"
	EventRollover  = "rollover"
)

// Event 描述一次需要前端展示的通知（里程碑庆祝、月度重置等）。
// 字段按事件类型选填：milestone 携带 Streak，rollover 携带 Month/Year。
type Event struct {
	Type   string `json:"type"`
	Streak int    `json:"streak,omitempty"`
	Month  int    `json:"month,omitempty"`
	Year   int    `json:"year,omitempty"`
}
