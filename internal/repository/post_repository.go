package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/campus-moments/internal/model"
)

type PostRepository interface {
    Create(ctx context.Context, post *model.Post) error
    CreateImages(ctx context.Context, images []model.PostImage) error
    GetByID(ctx context.Context, id string) (*model.Post, error)
    ListImages(ctx context.Context, postID string) ([]*model.PostImage, error)
    CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
    return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) CreateImages(ctx context.Context, images []model.PostImage) error {
    return r.db.WithContext(ctx).Create(&images).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
    var post model.Post
    if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
        return nil, err
    }
    return &post, nil
}

func (r *postRepository) ListImages(ctx context.Context, postID string) ([]*model.PostImage, error) {
    var res []*model.PostImage
    err := r.db.WithContext(ctx).
        Where("post_id = ?", postID).
        Order("sort_order ASC").
        Find(&res).Error
    return res, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
    var cnt int64
    err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&cnt).Error
    return cnt, err
}
