package engagement

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/realtime"
    "github.com/d60-Lab/campus-moments/internal/repository"
    "github.com/d60-Lab/campus-moments/pkg/logger"
)

var ErrAuthRequired = errors.New("authenticated identity required")

// Engagement 权威聚合计数：现场 COUNT，不用缓存计数器，避免乐观本地更新漂移
type Engagement struct {
    LikesCount         int64 `json:"likes_count"`
    CommentsCount      int64 `json:"comments_count"`
    LikedByCurrentUser bool  `json:"liked_by_current_user"`
}

// Service 点赞/评论一致性层
type Service struct {
    likes    repository.LikeRepository
    comments repository.CommentRepository
    channel  *realtime.Channel
}

func NewService(likes repository.LikeRepository, comments repository.CommentRepository, channel *realtime.Channel) *Service {
    return &Service{likes: likes, comments: comments, channel: channel}
}

// ToggleLike 有边删边（取消赞返回 false），无边插边（点赞返回 true）。
// 同一用户并发双击靠 (post,user) 唯一键兜底：插入撞键按"已点赞"处理，不上抛。
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
    if userID == "" {
        return false, ErrAuthRequired
    }
    liked, err := s.likes.Exists(ctx, postID, userID)
    if err != nil {
        return false, err
    }
    if liked {
        if err := s.likes.Delete(ctx, postID, userID); err != nil {
            return false, err
        }
        s.invalidate(ctx, "likes", postID)
        return false, nil
    }
    if err := s.likes.Create(ctx, postID, userID); err != nil {
        return false, err
    }
    s.invalidate(ctx, "likes", postID)
    return true, nil
}

// FetchEngagement 现场聚合点赞数、评论数和当前身份是否已点赞
func (s *Service) FetchEngagement(ctx context.Context, userID, postID string) (*Engagement, error) {
    likes, err := s.likes.CountByPost(ctx, postID)
    if err != nil {
        return nil, err
    }
    comments, err := s.comments.CountByPost(ctx, postID)
    if err != nil {
        return nil, err
    }
    likedBy := false
    if userID != "" {
        if likedBy, err = s.likes.Exists(ctx, postID, userID); err != nil {
            return nil, err
        }
    }
    return &Engagement{LikesCount: likes, CommentsCount: comments, LikedByCurrentUser: likedBy}, nil
}

// AddComment 追加评论（评论只增不改）
func (s *Service) AddComment(ctx context.Context, userID, postID, content string) (*model.Comment, error) {
    if userID == "" {
        return nil, ErrAuthRequired
    }
    c := &model.Comment{
        ID:        uuid.New().String(),
        PostID:    postID,
        AuthorID:  userID,
        Content:   content,
        CreatedAt: time.Now(),
    }
    if err := s.comments.Create(ctx, c); err != nil {
        return nil, err
    }
    s.invalidate(ctx, "comments", postID)
    return c, nil
}

// Watch 失效即重拉：收到推送只触发一次全新 FetchEngagement，
// 与首次加载走同一条代码路径，绝不直接套用推送增量。返回注销函数。
func (s *Service) Watch(userID, postID string, fn func(Engagement)) func() {
    if s.channel == nil {
        return func() {}
    }
    refetch := func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        e, err := s.FetchEngagement(ctx, userID, postID)
        if err != nil {
            logger.Warn("engagement refetch failed", zap.String("post_id", postID), zap.Error(err))
            return
        }
        fn(*e)
    }
    unsubLikes := s.channel.Subscribe("likes", postID, refetch)
    unsubComments := s.channel.Subscribe("comments", postID, refetch)
    return func() {
        unsubLikes()
        unsubComments()
    }
}

func (s *Service) invalidate(ctx context.Context, table, postID string) {
    if s.channel == nil {
        return
    }
    if err := s.channel.Publish(ctx, table, postID); err != nil {
        logger.Warn("invalidate publish failed",
            zap.String("table", table), zap.String("post_id", postID), zap.Error(err))
    }
}
