package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/plasmap/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
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

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.SequenceKey("abc"); got != "seq:abc" {
		t.Errorf("SequenceKey = %q", got)
	}

	lk1 := k.LayoutKey("h", LayoutKeyOpts{Topology: "circular"})
	lk2 := k.LayoutKey("h", LayoutKeyOpts{Topology: "linear"})
	lk3 := k.LayoutKey("h", LayoutKeyOpts{Topology: "circular", Options: map[string]int{"width": 300}})
	if lk1 == lk2 || lk1 == lk3 {
		t.Error("layout inputs should change the key")
	}
	if !strings.HasPrefix(lk1, PrefixLayout+":") {
		t.Errorf("LayoutKey prefix: %s", lk1)
	}
	if lk1 != k.LayoutKey("h", LayoutKeyOpts{Topology: "circular"}) {
		t.Error("LayoutKey should be deterministic")
	}

	ak1 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "SVG"})
	ak2 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "svg"})
	ak3 := k.ArtifactKey("l", ArtifactKeyOpts{Format: "svg", Static: true})
	if ak1 != ak2 {
		t.Error("format should be case-insensitive")
	}
	if ak1 == ak3 {
		t.Error("static flag should change the key")
	}
	if !strings.HasPrefix(ak1, PrefixArtifact+":") {
		t.Errorf("ArtifactKey prefix: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "lab:1:")
	def := NewDefaultKeyer()

	tests := []struct {
		name      string
		got, want string
	}{
		{"sequence", k.SequenceKey("x"), "lab:1:" + def.SequenceKey("x")},
		{"layout", k.LayoutKey("x", LayoutKeyOpts{Topology: "linear"}), "lab:1:" + def.LayoutKey("x", LayoutKeyOpts{Topology: "linear"})},
		{"artifact", k.ArtifactKey("x", ArtifactKeyOpts{Format: "png"}), "lab:1:" + def.ArtifactKey("x", ArtifactKeyOpts{Format: "png"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestKeyerUnencodableOptions(t *testing.T) {
	bad := LayoutKeyOpts{Topology: "circular", Options: map[string]float64{"opacity": math.NaN()}}
	tests := []struct {
		name string
		k    Keyer
	}{
		{"default", NewDefaultKeyer()},
		{"scoped", NewScopedKeyer(nil, "lab:1:")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.k.LayoutKey("a", bad); got != "" {
				t.Errorf("LayoutKey(NaN) = %q, want empty", got)
			}
			if got := tt.k.LayoutKey("b", bad); got != "" {
				t.Errorf("LayoutKey(NaN) for another sequence = %q, want empty", got)
			}
			if got := tt.k.ArtifactKey("l", ArtifactKeyOpts{Format: "svg", Scale: math.Inf(1)}); got != "" {
				t.Errorf("ArtifactKey(Inf) = %q, want empty", got)
			}
		})
	}
}

// testBackend runs the shared Cache contract against c.
func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v1" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("overwrite: got %q", data)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.(Clearer).Clear(ctx)
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v, want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestMemoryCache(t *testing.T) {
	testBackend(t, NewMemoryCache())
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry missing")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if c.Len() != 0 {
		t.Error("expired entry not evicted")
	}
}

func TestMemoryCacheCopiesInput(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	buf := []byte("abc")
	c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'
	if data, _, _ := c.Get(ctx, "k"); string(data) != "abc" {
		t.Errorf("stored data aliased caller buffer: %q", data)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testBackend(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || hit || data != nil {
		t.Errorf("corrupt entry: %q, %v, %v", data, hit, err)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "plasmap") {
		t.Errorf("DefaultDir() = %s", dir)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses map[string]int
	sets         int
}

func (h *countingHooks) OnCacheHit(_ context.Context, kt string) {
	h.mu.Lock()
	h.hits[kt]++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheMiss(_ context.Context, kt string) {
	h.mu.Lock()
	h.misses[kt]++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.sets++
	h.mu.Unlock()
}

func TestInstrumented(t *testing.T) {
	hooks := &countingHooks{hits: map[string]int{}, misses: map[string]int{}}
	observability.SetCacheHooks(hooks)
	t.Cleanup(func() { observability.SetCacheHooks(observability.NoopCacheHooks{}) })

	ctx := context.Background()
	c := Instrumented(NewMemoryCache())
	if Instrumented(c) != c {
		t.Error("double wrapping")
	}

	c.Get(ctx, "layout:1")
	c.Set(ctx, "layout:1", []byte("x"), 0)
	c.Get(ctx, "layout:1")
	c.Get(ctx, "nokey")

	if hooks.misses["layout"] != 1 || hooks.hits["layout"] != 1 || hooks.misses["other"] != 1 || hooks.sets != 1 {
		t.Errorf("hooks = hits %v misses %v sets %d", hooks.hits, hooks.misses, hooks.sets)
	}
	if n, _ := c.(Clearer).Clear(ctx); n != 1 {
		t.Errorf("Clear through wrapper = %d", n)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrBackend)
	if !IsRetryable(err) {
		t.Error("IsRetryable should be true")
	}
	if !errors.Is(err, ErrBackend) {
		t.Error("RetryableError should unwrap")
	}
	if IsRetryable(ErrBackend) {
		t.Error("plain error is not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return Retryable(ErrBackend)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err %v after %d calls", err, calls)
		}
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return Retryable(ErrBackend)
		})
		if !errors.Is(err, ErrBackend) || calls != 3 {
			t.Errorf("err %v after %d calls", err, calls)
		}
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		perm := errors.New("bad input")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return perm
		})
		if err != perm || calls != 1 {
			t.Errorf("err %v after %d calls", err, calls)
		}
	})

	t.Run("honours cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cctx, func() error { return Retryable(ErrBackend) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
