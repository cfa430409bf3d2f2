package handler

import (
    "errors"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/campus-moments/internal/api/middleware"
    "github.com/d60-Lab/campus-moments/internal/engagement"
    "github.com/d60-Lab/campus-moments/pkg/response"
)

// ToggleLike 点赞/取消赞（幂等对：连点两次回到原状态）
// @Summary 点赞开关
// @Tags 互动
// @Param post_id path string true "动态ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{post_id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
    userID := c.GetString(middleware.ContextUserKey)
    liked, err := h.engagement.ToggleLike(c.Request.Context(), userID, c.Param("post_id"))
    if err != nil {
        if errors.Is(err, engagement.ErrAuthRequired) {
            response.Unauthorized(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"liked": liked})
}

// GetEngagement 权威互动计数（现场聚合，非缓存计数器）
// @Summary 查询互动计数
// @Tags 互动
// @Param post_id path string true "动态ID"
// @Success 200 {object} response.Response{data=engagement.Engagement}
// @Router /api/v1/posts/{post_id}/engagement [get]
func (h *Handler) GetEngagement(c *gin.Context) {
    userID := c.GetString(middleware.ContextUserKey)
    e, err := h.engagement.FetchEngagement(c.Request.Context(), userID, c.Param("post_id"))
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, e)
}

type addCommentRequest struct {
    Content string `json:"content" binding:"required"`
}

// AddComment 追加评论
// @Summary 发表评论
// @Tags 互动
// @Param post_id path string true "动态ID"
// @Param request body addCommentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
    var req addCommentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    userID := c.GetString(middleware.ContextUserKey)
    cm, err := h.engagement.AddComment(c.Request.Context(), userID, c.Param("post_id"), req.Content)
    if err != nil {
        if errors.Is(err, engagement.ErrAuthRequired) {
            response.Unauthorized(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, cm)
}
