package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/service"
)

type goalPayload struct {
	Goal string `json:"goal"`
}

// GetMainGoal 返回仪表盘主目标
func (a *API) GetMainGoal(c *gin.Context) {
	goal, err := a.settings.MainGoal()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载主目标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateMainGoal 更新仪表盘主目标
func (a *API) UpdateMainGoal(c *gin.Context) {
	var payload goalPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	goal, err := a.settings.UpdateMainGoal(payload.Goal)
	if err != nil {
		if errors.Is(err, service.ErrMainGoalRequired) {
			respondError(c, http.StatusBadRequest, "请输入目标内容")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存主目标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}
