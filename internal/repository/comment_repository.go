package repository

import (
    "context"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/campus-moments/internal/model"
)

type CommentRepository interface {
    Create(ctx context.Context, c *model.Comment) error
    CountByPost(ctx context.Context, postID string) (int64, error)
    // ListPage 按 created_at DESC, id DESC 取一页；beforeCreatedAt 为零值表示从头取，
    // 否则以 (beforeCreatedAt, beforeID) 为排他下界
    ListPage(ctx context.Context, postID string, beforeCreatedAt time.Time, beforeID string, limit int) ([]*model.Comment, error)
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
    return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
    return cnt, err
}

func (r *commentRepository) ListPage(ctx context.Context, postID string, beforeCreatedAt time.Time, beforeID string, limit int) ([]*model.Comment, error) {
    q := r.db.WithContext(ctx).Where("post_id = ?", postID)
    if !beforeCreatedAt.IsZero() {
        q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", beforeCreatedAt, beforeCreatedAt, beforeID)
    }
    var res []*model.Comment
    err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&res).Error
    return res, err
}
