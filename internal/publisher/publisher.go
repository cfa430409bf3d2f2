package publisher

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/objstore"
    "github.com/d60-Lab/campus-moments/internal/repository"
    "github.com/d60-Lab/campus-moments/pkg/logger"
)

var (
    // ErrPublishPartialFailure 某一步失败且补偿清理已执行，条目可重试
    ErrPublishPartialFailure = errors.New("publish partially failed and was rolled back")
    // ErrSchemaNotProvisioned post_images 后备表不存在，必须大声失败，不得静默退化成单图
    ErrSchemaNotProvisioned = errors.New("post_images relation not provisioned")
    ErrEmptyBatch           = errors.New("publish requires at least one image")
    ErrAuthRequired         = errors.New("publish requires an authenticated author")
)

// Image 单张图片载荷
type Image struct {
    Data        []byte
    ContentType string
}

// Options 发布附带的元数据
type Options struct {
    Caption    string
    Visibility string
    EventID    string
}

// Outcome 提交结果的三态之二；第三态 Failed 以 error 返回
type Outcome int

const (
    OutcomeCommitted Outcome = iota + 1
    // OutcomeDegraded Post 已提交但完整图片列表缺失，老式单图封面仍可读
    OutcomeDegraded
)

type Result struct {
    Outcome     Outcome
    PostID      string
    ObjectPaths []string
    // Reason 仅 OutcomeDegraded 时非空
    Reason error
}

// Publisher 多对象原子发布：对象逐个顺序入库，任一步失败即对本次已存对象做补偿删除。
// 跨对象原子性完全靠应用层补偿协议，不依赖后端多对象事务。
type Publisher struct {
    objects objstore.Store
    posts   repository.PostRepository
}

func New(objects objstore.Store, posts repository.PostRepository) *Publisher {
    return &Publisher{objects: objects, posts: posts}
}

// PublishBatch 发布 1..N 张图为一条动态。成功保证：动态可查且至少引用 1 张图；
// 失败保证：本次入库对象零残留（回滚本身失败的孤儿只记日志）。
func (p *Publisher) PublishBatch(ctx context.Context, authorID string, images []Image, opts Options) (*Result, error) {
    if authorID == "" {
        return nil, ErrAuthRequired
    }
    if len(images) == 0 {
        return nil, ErrEmptyBatch
    }

    stored := make([]string, 0, len(images))
    for i, img := range images {
        path := fmt.Sprintf("posts/%s/%s", authorID, uuid.New().String())
        if err := p.objects.Put(ctx, path, img.Data, img.ContentType); err != nil {
            p.rollback(ctx, stored)
            return nil, fmt.Errorf("%w: store image %d/%d: %v", ErrPublishPartialFailure, i+1, len(images), err)
        }
        stored = append(stored, path)
    }

    now := time.Now()
    post := &model.Post{
        ID:       uuid.New().String(),
        AuthorID: authorID,
        Caption:  opts.Caption,
        // 第一张图作为旧版单图封面指针
        CoverURL:   p.objects.PublicURL(stored[0]),
        Visibility: opts.Visibility,
        EventID:    opts.EventID,
        CreatedAt:  now,
        UpdatedAt:  now,
    }
    if err := p.posts.Create(ctx, post); err != nil {
        // Post 不可见时对象绝不能残留
        p.rollback(ctx, stored)
        return nil, fmt.Errorf("%w: insert post: %v", ErrPublishPartialFailure, err)
    }

    rows := make([]model.PostImage, len(stored))
    for i, path := range stored {
        rows[i] = model.PostImage{ID: uuid.New().String(), PostID: post.ID, ObjectPath: path, SortOrder: i, CreatedAt: now}
    }
    if err := p.posts.CreateImages(ctx, rows); err != nil {
        if isMissingRelation(err) {
            return nil, fmt.Errorf("%w: %v", ErrSchemaNotProvisioned, err)
        }
        // Post 已提交：降级为单图封面可读，不回滚
        logger.Warn("publish degraded: image refs not written",
            zap.String("post_id", post.ID), zap.Error(err))
        return &Result{Outcome: OutcomeDegraded, PostID: post.ID, ObjectPaths: stored, Reason: err}, nil
    }

    return &Result{Outcome: OutcomeCommitted, PostID: post.ID, ObjectPaths: stored}, nil
}

// PublishCapture 单条目入口（排空路径用，一条待发布条目发成一条单图动态）。
// 没有幂等键：远端成功与本地删除之间崩溃，重试会产生重复动态。
func (p *Publisher) PublishCapture(ctx context.Context, c *model.PendingCapture) (*Result, error) {
    return p.PublishBatch(ctx, c.AuthorID,
        []Image{{Data: c.Payload, ContentType: c.ContentType}},
        Options{Caption: c.Caption, Visibility: c.Visibility, EventID: c.EventID})
}

// rollback 补偿删除本次已存对象。删不掉的孤儿记日志，不自动重试。
func (p *Publisher) rollback(ctx context.Context, paths []string) {
    for _, path := range paths {
        if err := p.objects.Delete(ctx, path); err != nil {
            logger.Error("publish rollback: orphan object left behind",
                zap.String("path", path), zap.Error(err))
        }
    }
}

// isMissingRelation 后备表不存在（sqlite 与 postgres 文案不同）
func isMissingRelation(err error) bool {
    if err == nil {
        return false
    }
    msg := strings.ToLower(err.Error())
    return strings.Contains(msg, "no such table") ||
        strings.Contains(msg, "undefined table") ||
        strings.Contains(msg, "does not exist")
}
