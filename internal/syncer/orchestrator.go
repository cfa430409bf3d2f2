package syncer

import (
    "context"
    "fmt"
    "sync/atomic"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/netmon"
    "github.com/d60-Lab/campus-moments/internal/publisher"
    "github.com/d60-Lab/campus-moments/internal/queue"
    "github.com/d60-Lab/campus-moments/pkg/logger"
)

// Publisher 排空时使用的发布入口
type Publisher interface {
    PublishCapture(ctx context.Context, c *model.PendingCapture) (*publisher.Result, error)
}

// Orchestrator 在恢复在线（或被显式触发）时排空本地队列
type Orchestrator struct {
    queue *queue.Store
    mon   *netmon.Monitor
    pub   Publisher

    draining atomic.Bool
    status   atomic.Value // string
}

func New(q *queue.Store, mon *netmon.Monitor, pub Publisher) *Orchestrator {
    o := &Orchestrator{queue: q, mon: mon, pub: pub}
    o.status.Store("")
    return o
}

// Start 订阅连通性翻转，恢复在线即触发一次排空；返回注销函数
func (o *Orchestrator) Start() func() {
    return o.mon.Subscribe(func(online bool) {
        if !online {
            return
        }
        if _, err := o.DrainQueue(context.Background()); err != nil {
            logger.Warn("drain stopped", zap.Error(err))
        }
    })
}

// StartPeriodicRetry 周期性重试协作方（核心契约之外的外围触发器）
func (o *Orchestrator) StartPeriodicRetry(interval time.Duration) func() {
    stop := make(chan struct{})
    go func() {
        ticker := time.NewTicker(interval)
        defer ticker.Stop()
        for {
            select {
            case <-stop:
                return
            case <-ticker.C:
                if !o.mon.IsOnline() {
                    continue
                }
                if _, err := o.DrainQueue(context.Background()); err != nil {
                    logger.Warn("periodic drain stopped", zap.Error(err))
                }
            }
        }
    }()
    return func() { close(stop) }
}

// DrainQueue 对当前快照逐条顺序发布（不处理本轮新入队的条目）。
// 每条成功立即删除（按条提交）；第 k 条失败则本轮终止，k..N 留队等下次触发。
// 已有排空在跑时再触发是 no-op，不排第二轮。
func (o *Orchestrator) DrainQueue(ctx context.Context) (int, error) {
    if !o.draining.CompareAndSwap(false, true) {
        return 0, nil
    }
    defer o.draining.Store(false)

    if !o.mon.IsOnline() {
        return 0, nil
    }

    snapshot, err := o.queue.List(ctx)
    if err != nil {
        o.status.Store("capture queue unavailable")
        return 0, err
    }

    published := 0
    for _, c := range snapshot {
        if _, err := o.pub.PublishCapture(ctx, c); err != nil {
            o.status.Store(fmt.Sprintf("published %d, %d still pending", published, len(snapshot)-published))
            return published, err
        }
        // 远端已提交，立即删本地条目；两步之间崩溃会在重试时产生重复动态
        if err := o.queue.Remove(ctx, c.ID); err != nil {
            logger.Warn("drained item not removed from queue",
                zap.String("capture_id", c.ID), zap.Error(err))
        }
        published++
    }
    if published > 0 {
        o.status.Store(fmt.Sprintf("published %d", published))
    }
    return published, nil
}

// Status 最近一次排空结果的可读描述
func (o *Orchestrator) Status() string {
    s, _ := o.status.Load().(string)
    return s
}
