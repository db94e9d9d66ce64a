package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DiskStore archives objects under a local directory. Each object gets a
// sibling ".meta.json" file with its content type and archive time.
type DiskStore struct {
	dir string
}

type diskMeta struct {
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Put implements Store.
func (s *DiskStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validKey(key) {
		return ErrInvalidKey
	}

	p := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return err
	}

	meta, err := json.Marshal(diskMeta{
		ContentType: contentType,
		Size:        len(data),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(p+".meta.json", meta, 0644)
}

// Dir returns the store root.
func (s *DiskStore) Dir() string {
	return s.dir
}
