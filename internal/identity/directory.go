package identity

import (
	"context"
	"sync"
	"time"

	"github.com/workflowkit/notion-bridge/internal/notion"
)

// DefaultTTL is how long a fetched user listing stays fresh.
const DefaultTTL = 5 * time.Minute

// UserLister fetches the complete workspace user listing.
type UserLister interface {
	ListAllUsers(ctx context.Context) ([]notion.User, error)
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithTTL overrides the cache time-to-live.
func WithTTL(ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) {
		d.now = now
	}
}

// Directory is a read-through cache of the workspace user listing. A refresh
// replaces the cached slice in one swap; readers never observe a partially
// populated listing.
type Directory struct {
	lister UserLister
	ttl    time.Duration
	now    func() time.Time

	mu     sync.RWMutex
	users  []notion.User
	expiry time.Time
}

// NewDirectory creates a directory backed by the given lister.
func NewDirectory(lister UserLister, opts ...DirectoryOption) *Directory {
	d := &Directory{
		lister: lister,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Users returns the cached listing, refetching it when the cache is empty or
// older than the TTL.
func (d *Directory) Users(ctx context.Context) ([]notion.User, error) {
	d.mu.RLock()
	if d.users != nil && d.now().Before(d.expiry) {
		users := d.users
		d.mu.RUnlock()
		return users, nil
	}
	d.mu.RUnlock()

	users, err := d.lister.ListAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.users = users
	d.expiry = d.now().Add(d.ttl)
	d.mu.Unlock()

	return users, nil
}
