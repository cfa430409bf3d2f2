package handler

import (
    "strconv"
    "time"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/campus-moments/internal/comments"
    "github.com/d60-Lab/campus-moments/pkg/response"
)

// ListComments 评论游标分页
// @Summary 查询评论（游标分页）
// @Tags 互动
// @Param post_id path string true "动态ID"
// @Param limit query int false "每页数量" default(20)
// @Param before_created_at query string false "游标时间（RFC3339Nano）"
// @Param before_id query string false "游标 id（时间并列时破平）"
// @Success 200 {object} response.Response{data=comments.Page}
// @Router /api/v1/posts/{post_id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
    limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

    var cursor *comments.Cursor
    if raw := c.Query("before_created_at"); raw != "" {
        at, err := time.Parse(time.RFC3339Nano, raw)
        if err != nil {
            response.BadRequest(c, "invalid before_created_at: "+err.Error())
            return
        }
        cursor = &comments.Cursor{CreatedAt: at, ID: c.Query("before_id")}
    }

    page, err := h.pager.FetchPage(c.Request.Context(), c.Param("post_id"), limit, cursor)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, page)
}
