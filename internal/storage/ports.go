package storage

import "context"

// Ports for the persistence substrate: named text blobs, last write wins.
type (
	// Store loads and saves serialized collections by key.
	Store interface {
		// Load returns found=false when the key was never written.
		Load(ctx context.Context, key string) (value string, found bool, err error)
		Save(ctx context.Context, key, value string) error
	}

	// BatchSaver is implemented by stores that can write several entries atomically.
	BatchSaver interface {
		SaveBatch(ctx context.Context, entries []Entry) error
	}
)

// Entry is one key/value pair of a batch write.
type Entry struct {
	Key   string
	Value string
}

// SaveAll writes entries in one batch when the store supports it, one by one otherwise.
func SaveAll(ctx context.Context, s Store, entries []Entry) error {
	if bs, ok := s.(BatchSaver); ok {
		return bs.SaveBatch(ctx, entries)
	}
	for _, e := range entries {
		if err := s.Save(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
