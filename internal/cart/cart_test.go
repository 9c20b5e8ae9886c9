package cart_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/realtyflow/api/internal/cart"
	"github.com/realtyflow/api/internal/domain/property"
)

type memStore struct {
	kv     map[string][]byte
	getErr error
}

func newMemStore() *memStore {
	return &memStore{kv: map[string][]byte{}}
}

func (s *memStore) Get(key string) ([]byte, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}

	v, ok := s.kv[key]

	return v, ok, nil
}

func (s *memStore) Set(key string, val []byte) error {
	s.kv[key] = val
	return nil
}

func listing(id, title string) property.Property {
	return property.Property{ID: id, Title: title, Price: "500000"}
}

func TestAddIsIdempotent(t *testing.T) {
	c := cart.New(newMemStore())

	p := listing("p1", "Modern Family Home")

	for i := 0; i < 3; i++ {
		if err := c.Add(p); err != nil {
			t.Fatalf("add #%d: %v", i+1, err)
		}
	}

	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1 after re-adding the same listing", c.Len())
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := cart.New(newMemStore())

	if err := c.Add(listing("p1", "A")); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(listing("p2", "B")); err != nil {
		t.Fatal(err)
	}

	if err := c.Remove("p1"); err != nil {
		t.Fatal(err)
	}

	items := c.Items()

	if len(items) != 1 || items[0].Property.ID != "p2" {
		t.Fatalf("unexpected items after remove: %+v", items)
	}

	// removing an id that is not present is a no-op
	if err := c.Remove("p1"); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 0 {
		t.Fatalf("len = %d after clear, want 0", c.Len())
	}
}

func TestRehydrateAcrossInstances(t *testing.T) {
	store := newMemStore()

	first := cart.New(store)

	if err := first.Add(listing("p1", "Downtown Condo")); err != nil {
		t.Fatal(err)
	}

	second := cart.New(store)

	items := second.Items()

	if len(items) != 1 || items[0].Property.Title != "Downtown Condo" {
		t.Fatalf("rehydrated cart wrong: %+v", items)
	}
}

func TestRehydrateFallsBackToEmpty(t *testing.T) {
	t.Run("read_error", func(t *testing.T) {
		store := newMemStore()
		store.getErr = errors.New("disk on fire")

		if got := cart.New(store).Len(); got != 0 {
			t.Fatalf("len = %d, want empty cart", got)
		}
	})

	t.Run("corrupt_json", func(t *testing.T) {
		store := newMemStore()
		store.kv["realtyflow_cart_v1"] = []byte("{{{not json")

		if got := cart.New(store).Len(); got != 0 {
			t.Fatalf("len = %d, want empty cart", got)
		}
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cart.json")

	store, err := cart.NewFileStore(path)

	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	c := cart.New(store)

	if err := c.Add(listing("p1", "Suburban Townhouse")); err != nil {
		t.Fatal(err)
	}

	// fresh store against the same file sees the persisted cart
	store2, err := cart.NewFileStore(path)

	if err != nil {
		t.Fatal(err)
	}

	if got := cart.New(store2).Len(); got != 1 {
		t.Fatalf("len = %d after reopen, want 1", got)
	}
}

func TestFileStoreCorruptFileReplacedOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")

	if err := os.WriteFile(path, []byte("not json at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := cart.NewFileStore(path)

	if err != nil {
		t.Fatal(err)
	}

	c := cart.New(store)

	if c.Len() != 0 {
		t.Fatalf("corrupt file should read as empty, len = %d", c.Len())
	}

	if err := c.Add(listing("p1", "A")); err != nil {
		t.Fatalf("add over corrupt file: %v", err)
	}

	if got := cart.New(store).Len(); got != 1 {
		t.Fatalf("len = %d after rewrite, want 1", got)
	}
}
