package model

import "time"

// PostImage 动态图片引用
type PostImage struct {
    ID         string `gorm:"primaryKey;type:varchar(36)"`
    PostID     string `gorm:"type:varchar(36);index:idx_image_post;uniqueIndex:ux_image_post_sort"`
    ObjectPath string `gorm:"type:text;not null"`
    // 复合唯一键，排序 0..n-1 连续
    // ux_image_post_sort = (post_id, sort_order)
    SortOrder int `gorm:"uniqueIndex:ux_image_post_sort"`
    CreatedAt time.Time
}

func (PostImage) TableName() string { return "post_images" }
