package model

import "time"

// Like 点赞边（A 赞了某条动态）
type Like struct {
    ID     string `gorm:"primaryKey;type:varchar(36)"`
    PostID string `gorm:"type:varchar(36);index:idx_like_post;index:idx_like_pair,unique;not null"`
    UserID string `gorm:"type:varchar(36);not null;index:idx_like_pair,unique"`
    // 复合唯一键，避免重复点赞
    // idx_like_pair = (post_id, user_id)
    CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
