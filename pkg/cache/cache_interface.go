package cache

import "context"

// Cache interface định nghĩa contract cho cache layer
// Cho phép swap implementation (Redis, Memcached, In-memory)
//
// Values are opaque strings: the person read path stores the serialized
// HTTP body and returns it verbatim, so the cache never re-encodes. An
// error from any operation means "tier unavailable", never "bad data".
type Cache interface {
	// Get lấy raw value từ cache
	// Returns: (value, found, error)
	// - found = false, error = nil: cache miss
	// - error != nil: cache tier unavailable
	Get(ctx context.Context, key string) (string, bool, error)

	// Set lưu value vào cache. Entries have no TTL; they live until
	// overwritten or the tier restarts.
	Set(ctx context.Context, key, value string) error

	// MSet lưu nhiều key/value pairs trong một round trip
	// pairs = key1, value1, key2, value2, ...
	MSet(ctx context.Context, pairs ...string) error

	// Exists kiểm tra key có trong cache không
	Exists(ctx context.Context, key string) (bool, error)

	// Delete xóa các keys khỏi cache
	Delete(ctx context.Context, keys ...string) error

	// Ping kiểm tra connection
	Ping(ctx context.Context) error
}
