package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/campus-moments/pkg/response"
)

// SyncStatus 队列深度 + 最近一次排空结果
// @Summary 查询同步状态
// @Tags 同步
// @Success 200 {object} response.Response
// @Router /api/v1/sync/status [get]
func (h *Handler) SyncStatus(c *gin.Context) {
    pending, err := h.queue.Len(c.Request.Context())
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"pending": pending, "last_outcome": h.orch.Status()})
}

// TriggerDrain 按需触发一轮排空（已在排空时为 no-op）
// @Summary 触发排空
// @Tags 同步
// @Success 200 {object} response.Response
// @Router /api/v1/sync/drain [post]
func (h *Handler) TriggerDrain(c *gin.Context) {
    published, err := h.orch.DrainQueue(c.Request.Context())
    if err != nil {
        // 本轮中断：已发布的保持已发布，剩余留队
        response.Success(c, gin.H{"published": published, "stopped": err.Error()})
        return
    }
    response.Success(c, gin.H{"published": published})
}
