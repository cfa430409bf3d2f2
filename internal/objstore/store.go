package objstore

import "context"

// Store 对象存储协作方契约。单对象粒度事务：跨对象一致性由上层补偿协议保证。
type Store interface {
    Put(ctx context.Context, path string, data []byte, contentType string) error
    Delete(ctx context.Context, path string) error
    PublicURL(path string) string
}
