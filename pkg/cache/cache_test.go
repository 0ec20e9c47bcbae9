package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	t.Run("roundTrip", func(t *testing.T) {
		if err := c.Set(ctx, "layout:a", []byte(`{"pages":2}`), time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, hit, err := c.Get(ctx, "layout:a")
		if err != nil || !hit {
			t.Fatalf("Get = hit %v, err %v", hit, err)
		}
		if string(data) != `{"pages":2}` {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "layout:missing")
		if err != nil || hit {
			t.Errorf("Get = hit %v, err %v, want miss", hit, err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		if err := c.Set(ctx, "layout:old", []byte("x"), time.Nanosecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(time.Millisecond)
		if _, hit, _ := c.Get(ctx, "layout:old"); hit {
			t.Error("expired entry should be a miss")
		}
		if _, err := os.Stat(c.path("layout:old")); !os.IsNotExist(err) {
			t.Error("expired entry should be removed")
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		if err := c.Set(ctx, "layout:bad", []byte("x"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := os.WriteFile(c.path("layout:bad"), []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "layout:bad"); hit || err != nil {
			t.Errorf("corrupt entry: hit %v, err %v, want miss", hit, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		_ = c.Set(ctx, "layout:del", []byte("x"), 0)
		if err := c.Delete(ctx, "layout:del"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := c.Delete(ctx, "layout:del"); err != nil {
			t.Errorf("second Delete: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "layout:del"); hit {
			t.Error("deleted entry still present")
		}
	})

	t.Run("clear", func(t *testing.T) {
		_ = c.Set(ctx, "artifact:1", []byte("1"), 0)
		_ = c.Set(ctx, "artifact:2", []byte("2"), 0)
		n, err := c.Clear()
		if err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if n < 2 {
			t.Errorf("Clear removed %d entries, want at least 2", n)
		}
		if _, hit, _ := c.Get(ctx, "artifact:1"); hit {
			t.Error("entry survived Clear")
		}
		if _, err := os.Stat(c.Dir()); err != nil {
			t.Errorf("cache dir removed: %v", err)
		}
	})
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashParts(t *testing.T) {
	a := HashParts([]byte("ab"), []byte("c"))
	b := HashParts([]byte("a"), []byte("bc"))
	if a == b {
		t.Error("moving bytes between parts should change the hash")
	}
	if a != HashParts([]byte("ab"), []byte("c")) {
		t.Error("HashParts should be deterministic")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Paper: "letter", DPI: 300, Scale: 1, Overlap: 0.1}
	lk1 := k.LayoutKey("input", base)
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", lk1)
	}
	if lk1 != k.LayoutKey("input", base) {
		t.Error("LayoutKey should be deterministic")
	}

	tabloid := base
	tabloid.Paper = "tabloid"
	if lk1 == k.LayoutKey("input", tabloid) {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if lk1 == k.LayoutKey("other", base) {
		t.Error("Different inputs should produce different keys")
	}

	ak1 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "pdf"})
	ak2 := k.ArtifactKey("layout", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey = %q, want artifact: prefix", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:1:")
	key := scoped.LayoutKey("input", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "tenant:1:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", key)
	}
	key = scoped.ArtifactKey("layout", ArtifactKeyOpts{Format: "json"})
	if !strings.HasPrefix(key, "tenant:1:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	want := "prefix:" + NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Format: "pdf"})
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "pdf"}); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return nil })
		if err != nil || calls != 1 {
			t.Errorf("err %v, calls %d", err, calls)
		}
	})

	t.Run("notRetryable", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return stop })
		if err != stop || calls != 1 {
			t.Errorf("err %v, calls %d", err, calls)
		}
	})

	t.Run("retryThenSucceed", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(ErrUnavailable)
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("err %v, calls %d", err, calls)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
		if !errors.Is(err, ErrUnavailable) || calls != 3 {
			t.Errorf("err %v, calls %d", err, calls)
		}
	})
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("TACTILE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TACTILE_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "tactile:test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key: hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url"); err == nil {
		t.Error("expected error for malformed url")
	}
}
