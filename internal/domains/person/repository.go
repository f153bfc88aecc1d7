package person

import "context"

// SearchLimit caps how many matches a search may ever return.
const SearchLimit = 50

// Repository định nghĩa contract cho data access layer
// Cho phép swap implementation và mock trong unit tests.
type Repository interface {
	// FindByID tìm person theo ID trong durable store
	// Returns: ErrPersonNotFound nếu không tìm thấy
	FindByID(ctx context.Context, id string) (*Person, error)

	// Search tìm records có term là case-insensitive substring của
	// nickname, name hoặc bất kỳ stack element nào. At most limit rows,
	// stable under repeated identical queries against unchanged data.
	Search(ctx context.Context, term string, limit int) ([]Person, error)

	// CountExcludingPrefix đếm committed rows, bỏ qua các nickname bắt
	// đầu bằng prefix (synthetic warmup rows). Queued-but-unflushed
	// records are never counted.
	CountExcludingPrefix(ctx context.Context, prefix string) (int64, error)

	// BulkInsert commits one batch of creation events in a single
	// transaction. Rows violating the nickname uniqueness constraint are
	// skipped, not errored. An error means the whole batch was abandoned
	// and nothing was committed.
	BulkInsert(ctx context.Context, events []CreationEvent) error

	// DeleteByNicknamePrefix xóa các synthetic rows theo prefix
	// Returns số rows đã xóa.
	DeleteByNicknamePrefix(ctx context.Context, prefix string) (int64, error)
}
