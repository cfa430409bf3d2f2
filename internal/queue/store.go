package queue

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/pkg/logger"
)

// ErrStorageUnavailable 本地持久介质打不开（被禁用或被其它占用方锁死）
var ErrStorageUnavailable = errors.New("capture queue storage unavailable")

// Store 待发布条目的本地持久队列。
// 单实例单写者：多个进程同时打开同一队列文件互不协调，可能重复提交同一条目。
type Store struct {
    db *gorm.DB

    mu        sync.Mutex
    listeners map[int]func()
    nextID    int
}

// Open 打开（或创建）队列库，失败返回 ErrStorageUnavailable
func Open(path string) (*Store, error) {
    db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
    }
    if err := db.AutoMigrate(&model.PendingCapture{}); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
    }
    // 尽力申请更强的落盘保障，拿不到不算致命
    if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
        logger.Warn("capture queue: WAL not granted", zap.Error(err))
    }
    return &Store{db: db, listeners: make(map[int]func())}, nil
}

// Enqueue 追加一条待发布条目；条目入队后不再改写，直到发布确认后删除
func (s *Store) Enqueue(ctx context.Context, c *model.PendingCapture) error {
    if c.ID == "" {
        c.ID = uuid.New().String()
    }
    if c.Seq == 0 {
        c.Seq = time.Now().UnixNano()
    }
    if c.CreatedAt.IsZero() {
        c.CreatedAt = time.Now()
    }
    if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
        return fmt.Errorf("enqueue capture: %w", err)
    }
    s.notify()
    return nil
}

// List 返回当前队列快照（入队顺序）
func (s *Store) List(ctx context.Context) ([]*model.PendingCapture, error) {
    var res []*model.PendingCapture
    err := s.db.WithContext(ctx).Order("seq ASC").Find(&res).Error
    return res, err
}

// Remove 幂等删除：id 不存在时为 no-op
func (s *Store) Remove(ctx context.Context, id string) error {
    if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PendingCapture{}).Error; err != nil {
        return err
    }
    s.notify()
    return nil
}

// Len 当前待发布条数
func (s *Store) Len(ctx context.Context) (int64, error) {
    var cnt int64
    err := s.db.WithContext(ctx).Model(&model.PendingCapture{}).Count(&cnt).Error
    return cnt, err
}

// Subscribe 注册 queue-changed 监听，返回注销函数
func (s *Store) Subscribe(fn func()) func() {
    s.mu.Lock()
    id := s.nextID
    s.nextID++
    s.listeners[id] = fn
    s.mu.Unlock()
    return func() {
        s.mu.Lock()
        delete(s.listeners, id)
        s.mu.Unlock()
    }
}

func (s *Store) notify() {
    s.mu.Lock()
    fns := make([]func(), 0, len(s.listeners))
    for _, fn := range s.listeners {
        fns = append(fns, fn)
    }
    s.mu.Unlock()
    for _, fn := range fns {
        fn()
    }
}

func (s *Store) Close() error {
    sqlDB, err := s.db.DB()
    if err != nil {
        return err
    }
    return sqlDB.Close()
}
