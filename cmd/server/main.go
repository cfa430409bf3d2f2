package main

import (
    "context"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/campus-moments/config"
    "github.com/d60-Lab/campus-moments/internal/api"
    "github.com/d60-Lab/campus-moments/internal/api/handler"
    "github.com/d60-Lab/campus-moments/internal/comments"
    "github.com/d60-Lab/campus-moments/internal/engagement"
    "github.com/d60-Lab/campus-moments/internal/netmon"
    "github.com/d60-Lab/campus-moments/internal/objstore"
    "github.com/d60-Lab/campus-moments/internal/publisher"
    "github.com/d60-Lab/campus-moments/internal/queue"
    "github.com/d60-Lab/campus-moments/internal/realtime"
    "github.com/d60-Lab/campus-moments/internal/repository"
    "github.com/d60-Lab/campus-moments/internal/syncer"
    "github.com/d60-Lab/campus-moments/pkg/database"
    "github.com/d60-Lab/campus-moments/pkg/logger"
    "github.com/d60-Lab/campus-moments/pkg/trace"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        panic(err)
    }
    if err := logger.Init(cfg.Log.Level, cfg.Server.Mode == "debug"); err != nil {
        panic(err)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        } else {
            defer sentry.Flush(2 * time.Second)
        }
    }

    ctx := context.Background()
    shutdownTrace, err := trace.Init(ctx, cfg)
    if err != nil {
        logger.Warn("trace init failed", zap.Error(err))
    } else {
        defer func() { _ = shutdownTrace(ctx) }()
    }

    db, err := database.InitDB(cfg)
    if err != nil {
        panic(err)
    }
    if err := database.AutoMigrate(db); err != nil {
        panic(err)
    }

    rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
    defer rdb.Close()

    objects := objstore.NewRedisStore(rdb, cfg.Object.BaseURL)
    postRepo := repository.NewPostRepository(db)
    likeRepo := repository.NewLikeRepository(db)
    commentRepo := repository.NewCommentRepository(db)

    pub := publisher.New(objects, postRepo)
    eng := engagement.NewService(likeRepo, commentRepo, realtime.New(rdb))
    pager := comments.NewPager(commentRepo)

    q, err := queue.Open(cfg.Queue.Path)
    if err != nil {
        panic(err)
    }
    defer q.Close()

    // 服务端默认在线；netmon 留给宿主探活器驱动
    mon := netmon.New(true)
    orch := syncer.New(q, mon, pub)
    stopWatch := orch.Start()
    defer stopWatch()
    stopRetry := orch.StartPeriodicRetry(30 * time.Second)
    defer stopRetry()

    h := handler.New(pub, eng, pager, postRepo, q, orch, objects)
    r := api.NewRouter(cfg, h)
    logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
    if err := r.Run(cfg.Server.Addr); err != nil {
        panic(err)
    }
}
