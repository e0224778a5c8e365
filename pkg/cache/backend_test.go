package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// exerciseCache runs the behavior every backend must share.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v; want hit", hit, err)
	}
	if !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get(k) = %q, want %q", data, "value")
	}

	if err := c.Set(ctx, "k", []byte("second"), 0); err != nil {
		t.Fatalf("Set overwrite error: %v", err)
	}
	data, _, _ = c.Get(ctx, "k")
	if string(data) != "second" {
		t.Errorf("Get(k) after overwrite = %q, want %q", data, "second")
	}

	data, hit, err = Take(ctx, c, "k")
	if err != nil || !hit || string(data) != "second" {
		t.Fatalf("Take(k) = %q, hit %v, err %v", data, hit, err)
	}
	if _, hit, _ := Take(ctx, c, "k"); hit {
		t.Error("second Take(k) should miss")
	}

	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want silent miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	exerciseCache(t, c)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", c.Len())
	}
}

func TestMemoryCacheSweep(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "board:a", []byte("a"), time.Minute)
	_ = c.Set(ctx, "handoff:b", []byte("b"), time.Minute)
	_ = c.Set(ctx, "board:c", []byte("c"), time.Hour)
	_ = c.Set(ctx, "pinned", []byte("d"), 0)

	now = now.Add(2 * time.Minute)
	if n := c.Sweep(); n != 2 {
		t.Errorf("Sweep() removed %d, want 2", n)
	}
	c.mu.Lock()
	left := len(c.entries)
	c.mu.Unlock()
	if left != 2 {
		t.Errorf("%d entries stored after sweep, want 2", left)
	}
}

func TestMemoryCacheMaxEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheWithOptions(MemoryOptions{MaxEntries: 3})
	defer c.Close()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "pinned", []byte("p"), 0)
	_ = c.Set(ctx, "long", []byte("l"), time.Hour)
	_ = c.Set(ctx, "short", []byte("s"), time.Minute)

	// Overwriting an existing key never evicts.
	_ = c.Set(ctx, "long", []byte("l2"), time.Hour)
	if c.Len() != 3 {
		t.Fatalf("Len() = %d after overwrite, want 3", c.Len())
	}

	_ = c.Set(ctx, "new", []byte("n"), time.Hour)
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want the cap 3", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("the entry closest to expiry should be evicted")
	}
	for _, k := range []string{"pinned", "long", "new"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("%q evicted, want kept", k)
		}
	}
}

func TestMemoryCacheSweeperStopsOnClose(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheWithOptions(MemoryOptions{SweepInterval: 5 * time.Millisecond})
	_ = c.Set(ctx, "k", []byte("v"), time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for {
		c.mu.Lock()
		n := len(c.entries)
		c.mu.Unlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("sweeper never removed the expired entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'z'

	data, _, _ := c.Get(ctx, "k")
	if string(data) != "abc" {
		t.Errorf("Get = %q, want stored copy %q", data, "abc")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("SCATTERBOX_REDIS_URL")
	if url == "" {
		t.Skip("SCATTERBOX_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, NewCacheWithPrefix(c, "scatterbox-test:"+t.Name()+":"))
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("SCATTERBOX_MONGO_URI")
	if uri == "" {
		t.Skip("SCATTERBOX_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "scatterbox_test", "cache")
	if err != nil {
		t.Fatalf("NewMongoCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, NewCacheWithPrefix(c, t.Name()+":"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"default is file", Config{Dir: t.TempDir()}, false},
		{"file without dir", Config{Backend: BackendFile}, true},
		{"memory", Config{Backend: BackendMemory}, false},
		{"null", Config{Backend: BackendNull}, false},
		{"redis without url", Config{Backend: BackendRedis}, true},
		{"mongo without uri", Config{Backend: BackendMongo}, true},
		{"unknown", Config{Backend: "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if c == nil {
					t.Fatal("Open() returned nil cache")
				}
				c.Close()
			}
		})
	}
}
