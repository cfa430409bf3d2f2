package syncer

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/netmon"
    "github.com/d60-Lab/campus-moments/internal/objstore"
    "github.com/d60-Lab/campus-moments/internal/publisher"
    "github.com/d60-Lab/campus-moments/internal/queue"
    "github.com/d60-Lab/campus-moments/internal/repository"
)

// scriptedPublisher 可指定第 n 条失败，记录发布顺序
type scriptedPublisher struct {
    mu        sync.Mutex
    failAt    int // 1-based，0 表示全部成功
    calls     int
    published []string
    gate      chan struct{} // 非 nil 时每次发布先等放行
}

func (p *scriptedPublisher) PublishCapture(_ context.Context, c *model.PendingCapture) (*publisher.Result, error) {
    if p.gate != nil {
        <-p.gate
    }
    p.mu.Lock()
    defer p.mu.Unlock()
    p.calls++
    if p.failAt > 0 && p.calls == p.failAt {
        return nil, errors.New("remote publish failed")
    }
    p.published = append(p.published, c.ID)
    return &publisher.Result{Outcome: publisher.OutcomeCommitted, PostID: "post-" + c.ID}, nil
}

func newTestQueue(t *testing.T) *queue.Store {
    t.Helper()
    q, err := queue.Open(":memory:")
    require.NoError(t, err)
    t.Cleanup(func() { _ = q.Close() })
    return q
}

func enqueueN(t *testing.T, q *queue.Store, ids ...string) {
    t.Helper()
    for i, id := range ids {
        require.NoError(t, q.Enqueue(context.Background(), &model.PendingCapture{
            ID: id, AuthorID: "u1", Payload: []byte(id), Seq: int64(i + 1),
        }))
    }
}

func TestDrainAllSuccess(t *testing.T) {
    q := newTestQueue(t)
    enqueueN(t, q, "a", "b", "c")
    pub := &scriptedPublisher{}
    o := New(q, netmon.New(true), pub)

    n, err := o.DrainQueue(context.Background())
    require.NoError(t, err)
    require.Equal(t, 3, n)
    // 严格按入队顺序
    require.Equal(t, []string{"a", "b", "c"}, pub.published)

    left, err := q.Len(context.Background())
    require.NoError(t, err)
    require.EqualValues(t, 0, left)
}

func TestDrainStopsAtFirstFailure(t *testing.T) {
    q := newTestQueue(t)
    enqueueN(t, q, "a", "b", "c")
    pub := &scriptedPublisher{failAt: 2}
    o := New(q, netmon.New(true), pub)

    n, err := o.DrainQueue(context.Background())
    require.Error(t, err)
    require.Equal(t, 1, n)

    // 第 1 条已提交已删除，第 2、3 条留队
    items, err := q.List(context.Background())
    require.NoError(t, err)
    require.Len(t, items, 2)
    require.Equal(t, "b", items[0].ID)
    require.Equal(t, "c", items[1].ID)
}

func TestDrainOfflineNoop(t *testing.T) {
    q := newTestQueue(t)
    enqueueN(t, q, "a")
    pub := &scriptedPublisher{}
    o := New(q, netmon.New(false), pub)

    n, err := o.DrainQueue(context.Background())
    require.NoError(t, err)
    require.Zero(t, n)

    left, _ := q.Len(context.Background())
    require.EqualValues(t, 1, left)
}

func TestDrainReentrancyGuard(t *testing.T) {
    q := newTestQueue(t)
    enqueueN(t, q, "a")
    pub := &scriptedPublisher{gate: make(chan struct{})}
    o := New(q, netmon.New(true), pub)

    done := make(chan struct{})
    go func() {
        defer close(done)
        _, _ = o.DrainQueue(context.Background())
    }()

    // 第一轮还卡在发布上，再触发是 no-op
    require.Eventually(t, func() bool {
        n, err := o.DrainQueue(context.Background())
        return n == 0 && err == nil
    }, time.Second, 10*time.Millisecond)

    close(pub.gate)
    <-done
    require.Equal(t, []string{"a"}, pub.published)
}

func TestOnlineTransitionTriggersDrain(t *testing.T) {
    q := newTestQueue(t)
    enqueueN(t, q, "a", "b")
    pub := &scriptedPublisher{}
    mon := netmon.New(false)
    o := New(q, mon, pub)
    stop := o.Start()
    defer stop()

    mon.SetOnline(true) // 翻转通知同步触发排空

    left, err := q.Len(context.Background())
    require.NoError(t, err)
    require.EqualValues(t, 0, left)
    require.Equal(t, []string{"a", "b"}, pub.published)
}

// 离线拍 3 张 → 队列 3 条 → 恢复在线 → 队列清零、恰好 3 条单图动态（单条目入口）
func TestOfflineCapturesDrainToSingleImagePosts(t *testing.T) {
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&model.Post{}, &model.PostImage{}))

    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    q := newTestQueue(t)
    postRepo := repository.NewPostRepository(db)
    pub := publisher.New(objstore.NewRedisStore(rdb, "http://t.local/objects"), postRepo)

    mon := netmon.New(false)
    o := New(q, mon, pub)
    stop := o.Start()
    defer stop()

    enqueueN(t, q, "c1", "c2", "c3")
    left, err := q.Len(context.Background())
    require.NoError(t, err)
    require.EqualValues(t, 3, left)

    mon.SetOnline(true)

    left, err = q.Len(context.Background())
    require.NoError(t, err)
    require.EqualValues(t, 0, left)

    posts, err := postRepo.CountByAuthor(context.Background(), "u1")
    require.NoError(t, err)
    require.EqualValues(t, 3, posts)

    var imgCnt int64
    require.NoError(t, db.Model(&model.PostImage{}).Count(&imgCnt).Error)
    require.EqualValues(t, 3, imgCnt) // 每条动态恰好 1 张图
}
