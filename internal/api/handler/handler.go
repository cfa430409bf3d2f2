package handler

import (
    "github.com/d60-Lab/campus-moments/internal/comments"
    "github.com/d60-Lab/campus-moments/internal/engagement"
    "github.com/d60-Lab/campus-moments/internal/objstore"
    "github.com/d60-Lab/campus-moments/internal/publisher"
    "github.com/d60-Lab/campus-moments/internal/queue"
    "github.com/d60-Lab/campus-moments/internal/repository"
    "github.com/d60-Lab/campus-moments/internal/syncer"
)

type Handler struct {
    pub        *publisher.Publisher
    engagement *engagement.Service
    pager      *comments.Pager
    posts      repository.PostRepository
    queue      *queue.Store
    orch       *syncer.Orchestrator
    objects    *objstore.RedisStore
}

func New(
    pub *publisher.Publisher,
    eng *engagement.Service,
    pager *comments.Pager,
    posts repository.PostRepository,
    q *queue.Store,
    orch *syncer.Orchestrator,
    objects *objstore.RedisStore,
) *Handler {
    return &Handler{pub: pub, engagement: eng, pager: pager, posts: posts, queue: q, orch: orch, objects: objects}
}
