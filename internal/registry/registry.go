// Package registry pairs trigger activations with modal instances. Each
// activation gets a correlation id and a one-shot result channel; the modal
// resolves the id, the trigger receives the value.
package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/utils"
)

// DefaultIDLength is the correlation id length when none is configured.
const DefaultIDLength = 8

// Registry tracks pending confirmations keyed by correlation id
type Registry struct {
	mu       sync.Mutex
	pending  map[string]chan bool
	idLength int
	logger   *zap.Logger
}

type Option func(*Registry)

// WithIDLength sets the generated id length.
func WithIDLength(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.idLength = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		pending:  make(map[string]chan bool),
		idLength: DefaultIDLength,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateChannel registers a fresh id and returns it with its receiver. The
// receiver yields at most one value and is then closed.
func (r *Registry) CreateChannel() (string, <-chan bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := utils.GenerateRandomString(r.idLength)
	for {
		if _, taken := r.pending[id]; !taken {
			break
		}
		id = utils.GenerateRandomString(r.idLength)
	}

	ch := make(chan bool, 1)
	r.pending[id] = ch

	r.logger.Debug("correlation registered", zap.String("id", id))
	return id, ch
}

// Resolve delivers value to the receiver for id. Unknown or already settled
// ids are ignored; the return value reports whether anything was delivered.
func (r *Registry) Resolve(id string, value bool) bool {
	ch, ok := r.take(id)
	if !ok {
		r.logger.Debug("resolve for unknown correlation ignored", zap.String("id", id))
		return false
	}

	ch <- value
	close(ch)

	r.logger.Debug("correlation resolved", zap.String("id", id), zap.Bool("value", value))
	return true
}

// Release closes the receiver for id without a value.
func (r *Registry) Release(id string) bool {
	ch, ok := r.take(id)
	if !ok {
		return false
	}

	close(ch)

	r.logger.Debug("correlation released", zap.String("id", id))
	return true
}

// Pending returns the number of unsettled correlations.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Registry) take(id string) (chan bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	return ch, ok
}
