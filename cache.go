package ddns

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// NewFileCache returns a Cache backed by a single text file at path.
// The file holds the literal address text with no framing.
func NewFileCache(path string) Cache {
	return &fileCache{path: path}
}

type fileCache struct {
	path string
}

func (fc *fileCache) Load() (Addr, bool, error) {
	b, err := os.ReadFile(fc.path)
	if errors.Is(err, fs.ErrNotExist) {
		// First run: no prior value.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading cache file %q: %w", fc.path, err)
	}
	addr, err := ParseAddr(string(b))
	if err != nil {
		return "", false, fmt.Errorf("error parsing cached address in %q: %w", fc.path, err)
	}
	return addr, true, nil
}

func (fc *fileCache) Store(addr Addr) error {
	if err := os.WriteFile(fc.path, []byte(addr), 0644); err != nil {
		return fmt.Errorf("error writing cache file %q: %w", fc.path, err)
	}
	return nil
}
