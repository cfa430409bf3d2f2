package model

import "time"

// Post 动态主体（提交后不可变）
type Post struct {
    ID       string `gorm:"primaryKey;type:varchar(36)"`
    AuthorID string `gorm:"type:varchar(36);index:idx_post_author"`
    Caption  string `gorm:"type:text"`
    // CoverURL 第一张图的公开地址，兼容单图老读取端
    CoverURL   string `gorm:"type:text"`
    Visibility string `gorm:"type:varchar(16);index"`
    EventID    string `gorm:"type:varchar(36);index"`
    CreatedAt  time.Time
    UpdatedAt  time.Time
}

func (Post) TableName() string { return "posts" }
