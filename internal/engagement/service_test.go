package engagement

import (
    "context"
    "fmt"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/realtime"
    "github.com/d60-Lab/campus-moments/internal/repository"
)

type fixture struct {
    db       *gorm.DB
    likes    repository.LikeRepository
    comments repository.CommentRepository
    svc      *Service
}

func setup(t *testing.T) *fixture {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&model.Like{}, &model.Comment{}))

    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    likes := repository.NewLikeRepository(db)
    comments := repository.NewCommentRepository(db)
    return &fixture{
        db:       db,
        likes:    likes,
        comments: comments,
        svc:      NewService(likes, comments, realtime.New(rdb)),
    }
}

func TestToggleLikePairConverges(t *testing.T) {
    f := setup(t)
    ctx := context.Background()

    liked, err := f.svc.ToggleLike(ctx, "u1", "p1")
    require.NoError(t, err)
    require.True(t, liked)

    cnt, err := f.likes.CountByPost(ctx, "p1")
    require.NoError(t, err)
    require.EqualValues(t, 1, cnt)

    // 再点一次回到原状态
    liked, err = f.svc.ToggleLike(ctx, "u1", "p1")
    require.NoError(t, err)
    require.False(t, liked)

    cnt, err = f.likes.CountByPost(ctx, "p1")
    require.NoError(t, err)
    require.EqualValues(t, 0, cnt)
}

func TestDuplicateInsertAbsorbedByUniqueKey(t *testing.T) {
    f := setup(t)
    ctx := context.Background()

    // 并发双击的兜底路径：重复插边撞唯一键不报错，也不会出两条边
    require.NoError(t, f.likes.Create(ctx, "p1", "u1"))
    require.NoError(t, f.likes.Create(ctx, "p1", "u1"))

    cnt, err := f.likes.CountByPost(ctx, "p1")
    require.NoError(t, err)
    require.EqualValues(t, 1, cnt)
}

func TestToggleLikeRequiresIdentity(t *testing.T) {
    f := setup(t)
    _, err := f.svc.ToggleLike(context.Background(), "", "p1")
    require.ErrorIs(t, err, ErrAuthRequired)

    _, err = f.svc.AddComment(context.Background(), "", "p1", "hi")
    require.ErrorIs(t, err, ErrAuthRequired)
}

// 5 个赞 + 2 条评论，当前用户持有其中一条边
func TestFetchEngagementScenario(t *testing.T) {
    f := setup(t)
    ctx := context.Background()

    for i := 1; i <= 5; i++ {
        require.NoError(t, f.likes.Create(ctx, "p1", fmt.Sprintf("u%d", i)))
    }
    for i := 0; i < 2; i++ {
        require.NoError(t, f.comments.Create(ctx, &model.Comment{
            ID: fmt.Sprintf("c%d", i), PostID: "p1", AuthorID: "u9",
            Content: "nice", CreatedAt: time.Now(),
        }))
    }

    e, err := f.svc.FetchEngagement(ctx, "u3", "p1")
    require.NoError(t, err)
    require.EqualValues(t, 5, e.LikesCount)
    require.EqualValues(t, 2, e.CommentsCount)
    require.True(t, e.LikedByCurrentUser)

    // 未持边的身份
    e, err = f.svc.FetchEngagement(ctx, "stranger", "p1")
    require.NoError(t, err)
    require.False(t, e.LikedByCurrentUser)
}

func TestWatchRefetchesOnInvalidation(t *testing.T) {
    f := setup(t)
    ctx := context.Background()

    got := make(chan Engagement, 4)
    unsub := f.svc.Watch("u1", "p1", func(e Engagement) { got <- e })
    defer unsub()

    // 订阅建立有竞态，等一拍再写
    time.Sleep(50 * time.Millisecond)

    liked, err := f.svc.ToggleLike(ctx, "u2", "p1")
    require.NoError(t, err)
    require.True(t, liked)

    select {
    case e := <-got:
        // 推送只触发重拉，计数是权威值
        require.EqualValues(t, 1, e.LikesCount)
        require.False(t, e.LikedByCurrentUser)
    case <-time.After(3 * time.Second):
        t.Fatal("no engagement refetch after invalidation")
    }

    _, err = f.svc.AddComment(ctx, "u2", "p1", "first")
    require.NoError(t, err)

    select {
    case e := <-got:
        require.EqualValues(t, 1, e.CommentsCount)
    case <-time.After(3 * time.Second):
        t.Fatal("no engagement refetch after comment invalidation")
    }
}
