package main

import (
    "context"
    "fmt"
    "math"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/netmon"
    "github.com/d60-Lab/campus-moments/internal/objstore"
    "github.com/d60-Lab/campus-moments/internal/publisher"
    "github.com/d60-Lab/campus-moments/internal/queue"
    "github.com/d60-Lab/campus-moments/internal/repository"
    "github.com/d60-Lab/campus-moments/internal/syncer"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func mustDo(err error) { if err != nil { panic(err) } }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

// timedPublisher 记录每条发布耗时
type timedPublisher struct {
    inner *publisher.Publisher
    durs  []time.Duration
}

func (t *timedPublisher) PublishCapture(ctx context.Context, c *model.PendingCapture) (*publisher.Result, error) {
    start := time.Now()
    res, err := t.inner.PublishCapture(ctx, c)
    t.durs = append(t.durs, time.Since(start))
    return res, err
}

func main() {
    // params
    N := 1000          // captures queued offline
    IMG := 32 * 1024   // payload bytes per capture
    if s := os.Getenv("N"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { N = v } }
    if s := os.Getenv("IMG"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { IMG = v } }

    mr := must(miniredis.Run())
    defer mr.Close()
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    defer rdb.Close()

    db := must(gorm.Open(sqlite.Open(":memory:"), &gorm.Config{}))
    mustDo(db.AutoMigrate(&model.Post{}, &model.PostImage{}, &model.Like{}, &model.Comment{}))

    q := must(queue.Open(":memory:"))
    defer q.Close()

    objects := objstore.NewRedisStore(rdb, "http://bench.local/objects")
    tp := &timedPublisher{inner: publisher.New(objects, repository.NewPostRepository(db))}

    mon := netmon.New(false)
    orch := syncer.New(q, mon, tp)
    stop := orch.Start()
    defer stop()

    // 离线入队 N 条
    payload := make([]byte, IMG)
    enqStart := time.Now()
    for i := 0; i < N; i++ {
        mustDo(q.Enqueue(context.Background(), &model.PendingCapture{
            AuthorID:    "bench-author",
            Payload:     payload,
            ContentType: "image/jpeg",
            Caption:     fmt.Sprintf("capture %d", i),
            Visibility:  model.VisibilityCampus,
        }))
    }
    fmt.Printf("enqueued %d captures offline in %v\n", N, time.Since(enqStart))

    // 恢复在线，翻转通知同步触发排空
    drainStart := time.Now()
    mon.SetOnline(true)
    drainDur := time.Since(drainStart)

    left := must(q.Len(context.Background()))
    posts := must(repository.NewPostRepository(db).CountByAuthor(context.Background(), "bench-author"))
    fmt.Printf("drained in %v: %d posts committed, %d left in queue\n", drainDur, posts, left)
    fmt.Printf("per-item publish: p50=%v p95=%v p99=%v\n",
        pct(tp.durs, 0.50), pct(tp.durs, 0.95), pct(tp.durs, 0.99))
}
