package handler

import (
    "errors"
    "io"
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/campus-moments/internal/api/middleware"
    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/objstore"
    "github.com/d60-Lab/campus-moments/internal/publisher"
    "github.com/d60-Lab/campus-moments/pkg/response"
)

// PublishPost 多图发布（multipart，images 字段 1..N 个文件，顺序即排序）
// @Summary 发布多图动态
// @Tags 动态
// @Accept mpfd
// @Produce json
// @Param images formData file true "图片（可多个，顺序保留）"
// @Param caption formData string false "文案"
// @Param visibility formData string false "可见范围 campus|visitor"
// @Param event_id formData string false "活动引用"
// @Success 200 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) PublishPost(c *gin.Context) {
    userID := c.GetString(middleware.ContextUserKey)

    form, err := c.MultipartForm()
    if err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    files := form.File["images"]
    if len(files) == 0 {
        response.BadRequest(c, "at least one image required")
        return
    }

    images := make([]publisher.Image, 0, len(files))
    for _, fh := range files {
        f, err := fh.Open()
        if err != nil {
            response.BadRequest(c, err.Error())
            return
        }
        data, err := io.ReadAll(f)
        f.Close()
        if err != nil {
            response.BadRequest(c, err.Error())
            return
        }
        ct := fh.Header.Get("Content-Type")
        if ct == "" {
            ct = "application/octet-stream"
        }
        images = append(images, publisher.Image{Data: data, ContentType: ct})
    }

    visibility := c.PostForm("visibility")
    if visibility == "" {
        visibility = model.VisibilityCampus
    }
    res, err := h.pub.PublishBatch(c.Request.Context(), userID, images, publisher.Options{
        Caption:    c.PostForm("caption"),
        Visibility: visibility,
        EventID:    c.PostForm("event_id"),
    })
    if err != nil {
        if errors.Is(err, publisher.ErrAuthRequired) {
            response.Unauthorized(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{
        "post_id":  res.PostID,
        "images":   len(res.ObjectPaths),
        "degraded": res.Outcome == publisher.OutcomeDegraded,
    })
}

// GetPost 查单条动态及图片列表
// @Summary 查询动态
// @Tags 动态
// @Param post_id path string true "动态ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{post_id} [get]
func (h *Handler) GetPost(c *gin.Context) {
    postID := c.Param("post_id")
    post, err := h.posts.GetByID(c.Request.Context(), postID)
    if err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    images, err := h.posts.ListImages(c.Request.Context(), postID)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    urls := make([]string, len(images))
    for i, img := range images {
        urls[i] = h.objects.PublicURL(img.ObjectPath)
    }
    response.Success(c, gin.H{"post": post, "image_urls": urls})
}

// GetObject 对象回源
func (h *Handler) GetObject(c *gin.Context) {
    path := c.Param("path")
    if len(path) > 0 && path[0] == '/' {
        path = path[1:]
    }
    data, ct, err := h.objects.Get(c.Request.Context(), path)
    if err != nil {
        if errors.Is(err, objstore.ErrNotFound) {
            c.Status(http.StatusNotFound)
            return
        }
        response.InternalError(c, err)
        return
    }
    c.Data(http.StatusOK, ct, data)
}
