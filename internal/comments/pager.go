package comments

import (
    "context"
    "time"

    "github.com/d60-Lab/campus-moments/internal/model"
    "github.com/d60-Lab/campus-moments/internal/repository"
)

const defaultPageSize = 20

// Cursor 页游标：本页最旧一条的 (created_at, id)，作为下一页的排他下界。
// 时间并列时 id 破平，页界不重不漏。
type Cursor struct {
    CreatedAt time.Time `json:"created_at"`
    ID        string    `json:"id"`
}

type Page struct {
    Items      []*model.Comment `json:"items"`
    NextCursor *Cursor          `json:"next_cursor,omitempty"`
    HasMore    bool             `json:"has_more"`
}

// Pager 评论游标分页
type Pager struct {
    comments repository.CommentRepository
}

func NewPager(comments repository.CommentRepository) *Pager {
    return &Pager{comments: comments}
}

// FetchPage 取一页（created_at DESC，id DESC 破平）
func (p *Pager) FetchPage(ctx context.Context, postID string, limit int, before *Cursor) (*Page, error) {
    if limit <= 0 {
        limit = defaultPageSize
    }
    var (
        beforeAt time.Time
        beforeID string
    )
    if before != nil {
        beforeAt, beforeID = before.CreatedAt, before.ID
    }
    // 多取一条判断 hasMore
    items, err := p.comments.ListPage(ctx, postID, beforeAt, beforeID, limit+1)
    if err != nil {
        return nil, err
    }
    hasMore := len(items) > limit
    if hasMore {
        items = items[:limit]
    }
    page := &Page{Items: items, HasMore: hasMore}
    if len(items) > 0 {
        last := items[len(items)-1]
        page.NextCursor = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
    }
    return page, nil
}

// RefreshVisible 失效刷新：按当前已展示条数整体重拉，
// 保住滚动位置和可见条数，不截断回第一页
func (p *Pager) RefreshVisible(ctx context.Context, postID string, visible int) ([]*model.Comment, error) {
    if visible < defaultPageSize {
        visible = defaultPageSize
    }
    return p.comments.ListPage(ctx, postID, time.Time{}, "", visible)
}

// Accumulator 跨页合并，按 id 去重，保序
type Accumulator struct {
    seen  map[string]struct{}
    items []*model.Comment
}

func NewAccumulator() *Accumulator {
    return &Accumulator{seen: make(map[string]struct{})}
}

// Merge 合并一页，返回新增条数
func (a *Accumulator) Merge(items []*model.Comment) int {
    added := 0
    for _, it := range items {
        if _, ok := a.seen[it.ID]; ok {
            continue
        }
        a.seen[it.ID] = struct{}{}
        a.items = append(a.items, it)
        added++
    }
    return added
}

func (a *Accumulator) Items() []*model.Comment { return a.items }

func (a *Accumulator) Len() int { return len(a.items) }
