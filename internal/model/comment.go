package model

import "time"

// Comment 评论（追加写，按 created_at 分页，并列时按 id 破平保证稳定）
type Comment struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    PostID    string    `gorm:"type:varchar(36);index:idx_comment_post_created"`
    AuthorID  string    `gorm:"type:varchar(36);not null"`
    Content   string    `gorm:"type:text;not null"`
    CreatedAt time.Time `gorm:"index:idx_comment_post_created"`
}

func (Comment) TableName() string { return "comments" }
