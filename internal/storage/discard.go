package storage

import "context"

// DiscardBackend accepts writes and drops them. It backs dry runs where
// the pipeline should execute end to end without persisting anything.
type DiscardBackend struct{}

// NewDiscardBackend creates a backend that discards everything.
func NewDiscardBackend() *DiscardBackend {
	return &DiscardBackend{}
}

func (b *DiscardBackend) Name() string { return "discard" }

func (b *DiscardBackend) Put(ctx context.Context, key string, data []byte) error {
	return nil
}

func (b *DiscardBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrNotFound
}

func (b *DiscardBackend) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (b *DiscardBackend) Delete(ctx context.Context, key string) error {
	return nil
}
