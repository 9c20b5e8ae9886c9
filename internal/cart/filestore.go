package cart

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is the disk-backed Store: one JSON document holding every key,
// the closest native analogue to a browser's local storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()

	if err != nil {
		return nil, false, err
	}

	raw, ok := kv[key]

	return raw, ok, nil
}

func (s *FileStore) Set(key string, val []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()

	if err != nil {
		// a corrupt store file is replaced rather than wedging the cart
		kv = map[string]json.RawMessage{}
	}

	kv[key] = json.RawMessage(val)

	out, err := json.Marshal(kv)

	if err != nil {
		return err
	}

	return os.WriteFile(s.path, out, 0o600)
}

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}

	kv := map[string]json.RawMessage{}

	if err := json.Unmarshal(raw, &kv); err != nil {
		return nil, err
	}

	return kv, nil
}
