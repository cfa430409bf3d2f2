package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/campus-moments/internal/model"
)

type LikeRepository interface {
    Create(ctx context.Context, postID, userID string) error
    Delete(ctx context.Context, postID, userID string) error
    Exists(ctx context.Context, postID, userID string) (bool, error)
    CountByPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, postID, userID string) error {
    l := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID}
    // 幂等：并发重复点赞撞唯一键不报错
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID string) error {
    return r.db.WithContext(ctx).
        Where("post_id = ? AND user_id = ?", postID, userID).
        Delete(&model.Like{}).Error
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
    var cnt int64
    if err := r.db.WithContext(ctx).
        Model(&model.Like{}).
        Where("post_id = ? AND user_id = ?", postID, userID).
        Count(&cnt).Error; err != nil {
        return false, err
    }
    return cnt > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
    return cnt, err
}
