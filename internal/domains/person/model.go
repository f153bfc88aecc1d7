package person

import "strings"

// Cache key families. Both live in the same keyspace:
//   <id>            -> serialized Person JSON (returned verbatim on lookups)
//   a/<nickname>    -> sentinel marking the nickname as observed
const (
	NicknameMarkerPrefix = "a/"
	NicknameMarkerValue  = "0"
)

// WarmupNicknamePrefix marks synthetic records created by the warmup
// collaborator. They are excluded from counts and purged by the worker.
const WarmupNicknamePrefix = "WARMUP"

// StackDelimiter separates stack elements inside the single text column.
// ASCII unit separator: cannot appear in a tag the way a space can.
const StackDelimiter = "\x1f"

// Person là record bất biến, tạo một lần qua POST /pessoas
// JSON field names are the public wire contract; the same serialization is
// stored in the cache tier and returned verbatim.
type Person struct {
	ID        string   `json:"id"`
	Nickname  string   `json:"apelido"`
	Name      string   `json:"nome"`
	BirthDate string   `json:"nascimento"`
	Stack     []string `json:"stack"`
}

// CreationEvent là unit nằm trên ingestion queue: accepted nhưng chưa durable.
// Owned exclusively by the queue until the flusher drains it.
type CreationEvent struct {
	ID       string
	Payload  CreatePersonRequest
	StackCol *string // normalized stack column value, nil when stack absent
}

// EncodeStack joins a stack into its column representation.
// nil (absent) -> nil; empty list -> pointer to "".
func EncodeStack(stack []string) *string {
	if stack == nil {
		return nil
	}
	s := strings.Join(stack, StackDelimiter)
	return &s
}

// DecodeStack splits a column value back into a stack.
// nil -> nil (absent); "" -> empty list.
func DecodeStack(col *string) []string {
	if col == nil {
		return nil
	}
	if *col == "" {
		return []string{}
	}
	return strings.Split(*col, StackDelimiter)
}

// NewPerson builds the immutable record for an accepted creation request.
func NewPerson(id string, req CreatePersonRequest) *Person {
	return &Person{
		ID:        id,
		Nickname:  req.Nickname,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Stack:     req.Stack,
	}
}
