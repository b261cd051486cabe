package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/service"
)

// ExportSnapshot 导出全部应用状态，用于备份下载
func (a *API) ExportSnapshot(c *gin.Context) {
	snapshot, err := a.snapshots.Export(time.Now().In(time.Local))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出数据失败")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ImportSnapshot 以上传的快照整体替换应用状态。
// 旧版本快照缺失的字段会按默认值补齐，脏记录被跳过而不报错。
func (a *API) ImportSnapshot(c *gin.Context) {
	var snapshot service.TrackerSnapshot
	if !bindJSON(c, &snapshot, "请求参数不合法") {
		return
	}

	imported, err := a.snapshots.Import(snapshot)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导入数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}
