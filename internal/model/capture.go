package model

import "time"

// 可见范围
const (
    VisibilityCampus  = "campus"
    VisibilityVisitor = "visitor"
)

// PendingCapture 离线拍摄的待发布条目（只存本地队列，发布确认后删除，期间不改写）
type PendingCapture struct {
    ID          string `gorm:"primaryKey;type:varchar(36)"`
    AuthorID    string `gorm:"type:varchar(36);not null"`
    Payload     []byte `gorm:"type:blob;not null"`
    ContentType string `gorm:"type:varchar(64)"`
    Caption     string `gorm:"type:text"`
    Visibility  string `gorm:"type:varchar(16)"` // campus, visitor
    EventID     string `gorm:"type:varchar(36)"`
    // Seq 入队顺序（UnixNano），排空按此升序处理
    Seq       int64 `gorm:"index:idx_capture_seq"`
    CreatedAt time.Time
}

func (PendingCapture) TableName() string { return "pending_captures" }
