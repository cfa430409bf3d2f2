package objstore

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/redis/go-redis/v9"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("object not found")

// RedisStore 把对象放进 Redis hash（data/content_type 两个 field）
type RedisStore struct {
    rdb     *redis.Client
    baseURL string
}

func NewRedisStore(rdb *redis.Client, baseURL string) *RedisStore {
    return &RedisStore{rdb: rdb, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func key(path string) string { return "obj:" + path }

func (s *RedisStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
    return s.rdb.HSet(ctx, key(path), "data", data, "content_type", contentType).Err()
}

// Get 读对象内容与 content type（API 回源用）
func (s *RedisStore) Get(ctx context.Context, path string) ([]byte, string, error) {
    vals, err := s.rdb.HGetAll(ctx, key(path)).Result()
    if err != nil {
        return nil, "", err
    }
    data, ok := vals["data"]
    if !ok {
        return nil, "", fmt.Errorf("%w: %s", ErrNotFound, path)
    }
    return []byte(data), vals["content_type"], nil
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
    return s.rdb.Del(ctx, key(path)).Err()
}

// Exists 对象是否存在（回滚校验用）
func (s *RedisStore) Exists(ctx context.Context, path string) (bool, error) {
    n, err := s.rdb.Exists(ctx, key(path)).Result()
    return n > 0, err
}

func (s *RedisStore) PublicURL(path string) string {
    return s.baseURL + "/" + path
}
