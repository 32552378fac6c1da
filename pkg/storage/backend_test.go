package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

// backendTestSuite runs a test suite against any Backend implementation
func backendTestSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateBucket", func(t *testing.T) {
		backend := newBackend(t)
		defer backend.Close()

		if err := backend.CreateBucket([]byte("test")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}

		exists, err := backend.BucketExists([]byte("test"))
		if err != nil {
			t.Fatalf("BucketExists failed: %v", err)
		}
		if !exists {
			t.Error("Bucket should exist after creation")
		}

		// Idempotent
		if err := backend.CreateBucket([]byte("test")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend := newBackend(t)
		defer backend.Close()

		backend.CreateBucket([]byte("test"))
		if err := backend.Put([]byte("test"), []byte("key"), []byte("value")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		value, err := backend.Get([]byte("test"), []byte("key"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(value, []byte("value")) {
			t.Errorf("Get = %q, want %q", value, "value")
		}

		// Missing key returns nil without error
		missing, err := backend.Get([]byte("test"), []byte("absent"))
		if err != nil {
			t.Fatalf("Get failed for missing key: %v", err)
		}
		if missing != nil {
			t.Errorf("Get for missing key = %q, want nil", missing)
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := newBackend(t)
		defer backend.Close()

		if err := backend.Put([]byte("nope"), []byte("k"), []byte("v")); err == nil {
			t.Error("Put into missing bucket should fail")
		}
		if _, err := backend.Get([]byte("nope"), []byte("k")); err == nil {
			t.Error("Get from missing bucket should fail")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		backend := newBackend(t)
		defer backend.Close()

		backend.CreateBucket([]byte("test"))
		backend.Put([]byte("test"), []byte("key"), []byte("value"))

		if err := backend.Delete([]byte("test"), []byte("key")); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		value, _ := backend.Get([]byte("test"), []byte("key"))
		if value != nil {
			t.Error("Key should be gone after Delete")
		}
	})

	t.Run("ForEach", func(t *testing.T) {
		backend := newBackend(t)
		defer backend.Close()

		backend.CreateBucket([]byte("test"))
		backend.Put([]byte("test"), []byte("a"), []byte("1"))
		backend.Put([]byte("test"), []byte("b"), []byte("2"))

		seen := make(map[string]string)
		err := backend.ForEach([]byte("test"), func(k, v []byte) error {
			seen[string(k)] = string(v)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}
		if len(seen) != 2 || seen["a"] != "1" || seen["b"] != "2" {
			t.Errorf("ForEach saw %v", seen)
		}
	})
}

func TestMemoryBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		return NewMemoryBackend()
	})
}

func TestBboltBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		backend, err := NewBboltBackend(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to create bbolt backend: %v", err)
		}
		return backend
	})
}
