package realtime

import (
    "context"
    "sync/atomic"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T) *Channel {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return New(rdb)
}

func TestPublishReachesSubscriber(t *testing.T) {
    c := newTestChannel(t)
    var fired atomic.Int64

    unsub := c.Subscribe("likes", "p1", func() { fired.Add(1) })
    defer unsub()
    time.Sleep(50 * time.Millisecond) // 等订阅建立

    require.NoError(t, c.Publish(context.Background(), "likes", "p1"))
    require.Eventually(t, func() bool { return fired.Load() == 1 }, 3*time.Second, 10*time.Millisecond)

    // 别的动态的信号不串台
    require.NoError(t, c.Publish(context.Background(), "likes", "p2"))
    time.Sleep(100 * time.Millisecond)
    require.EqualValues(t, 1, fired.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
    c := newTestChannel(t)
    var fired atomic.Int64

    unsub := c.Subscribe("comments", "p1", func() { fired.Add(1) })
    time.Sleep(50 * time.Millisecond)
    unsub()
    unsub() // 重复注销安全

    require.NoError(t, c.Publish(context.Background(), "comments", "p1"))
    time.Sleep(100 * time.Millisecond)
    require.EqualValues(t, 0, fired.Load())
}
