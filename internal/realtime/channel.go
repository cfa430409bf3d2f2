package realtime

import (
    "context"
    "fmt"
    "sync"

    "github.com/redis/go-redis/v9"
)

// Channel Redis pub/sub 失效通知。只发"有变更"信号不带增量，
// 订阅方收信后自己重拉权威数据（push-invalidate-then-pull）。
type Channel struct {
    rdb *redis.Client
}

func New(rdb *redis.Client) *Channel { return &Channel{rdb: rdb} }

func topic(table, postID string) string {
    return fmt.Sprintf("invalidate:%s:%s", table, postID)
}

// Publish 宣告某动态在 table 上有行变更
func (c *Channel) Publish(ctx context.Context, table, postID string) error {
    return c.rdb.Publish(ctx, topic(table, postID), "1").Err()
}

// Subscribe 订阅某动态某表的失效信号，返回注销函数
func (c *Channel) Subscribe(table, postID string, fn func()) func() {
    sub := c.rdb.Subscribe(context.Background(), topic(table, postID))
    done := make(chan struct{})
    go func() {
        ch := sub.Channel()
        for {
            select {
            case <-done:
                return
            case _, ok := <-ch:
                if !ok {
                    return
                }
                fn()
            }
        }
    }()
    var once sync.Once
    return func() {
        once.Do(func() {
            close(done)
            _ = sub.Close()
        })
    }
}
