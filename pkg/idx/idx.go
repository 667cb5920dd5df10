package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Zero is the empty ID.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a lexicographically sortable ULID-based ID for the current UTC
// time. IDs generated within the same millisecond stay ordered.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Parse validates s as a ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

func (id ID) IsZero() bool   { return id == Zero }
func (id ID) String() string { return string(id) }

// Time extracts the embedded timestamp, or the zero time for invalid IDs.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}

// Reference formats a human-facing document number: PREFIX-ULID. The
// timestamp half keeps references sortable by creation, the random half keeps
// two clients from colliding within the same millisecond. The server remains
// the authority on uniqueness.
func Reference(prefix string, t time.Time) string {
	return strings.ToUpper(prefix) + "-" + NewAt(t).String()
}

// ParseReference splits a reference produced by Reference.
func ParseReference(ref string) (prefix string, id ID, err error) {
	p, rest, ok := strings.Cut(ref, "-")
	if !ok || p == "" {
		return "", Zero, ErrInvalid
	}
	id, err = Parse(rest)
	if err != nil {
		return "", Zero, err
	}
	return p, id, nil
}
