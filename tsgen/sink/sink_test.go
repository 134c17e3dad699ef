package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestFilesystemSink_WriteFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)

	content := []byte("export interface User {}\n")
	if err := s.WriteFile(context.Background(), "api/user_api.ts", content); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "api", "user_api.ts"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content = %q, want %q", got, content)
	}

	// Overwrites replace the previous content atomically.
	if err := s.WriteFile(context.Background(), "api/user_api.ts", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = os.ReadFile(filepath.Join(dir, "api", "user_api.ts"))
	if string(got) != "v2" {
		t.Errorf("content after overwrite = %q", got)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Join(dir, "api"))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".footprint-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFilesystemSink_RejectsEscape(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	for _, path := range []string{"../evil.ts", "/abs.ts", "a/../b.ts", ""} {
		if err := s.WriteFile(context.Background(), path, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) succeeded, want error", path)
		}
	}
}

func TestFilesystemSink_CancelledContext(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WriteFile(ctx, "a.ts", []byte("x")); err == nil {
		t.Error("WriteFile with cancelled context succeeded")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	if err := s.WriteFile(context.Background(), "a.ts", []byte("one")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if got := s.Get("a.ts"); string(got) != "one" {
		t.Errorf("Get = %q", got)
	}
	if got := s.Get("missing.ts"); got != nil {
		t.Errorf("Get(missing) = %q, want nil", got)
	}

	// Returned content is a copy.
	got := s.Get("a.ts")
	got[0] = 'X'
	if string(s.Get("a.ts")) != "one" {
		t.Error("Get returned a mutable reference")
	}
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			path := "f" + string(rune('a'+n)) + ".ts"
			_ = s.WriteFile(context.Background(), path, []byte("x"))
		}(i)
	}
	wg.Wait()
	if got := len(s.Paths()); got != 10 {
		t.Errorf("Paths() = %d entries, want 10", got)
	}
}

func TestValidatePath(t *testing.T) {
	valid := []string{"a.ts", "a/b.ts", "deep/nested/file.ts"}
	for _, p := range valid {
		if err := ValidatePath(p); err != nil {
			t.Errorf("ValidatePath(%q) = %v, want nil", p, err)
		}
	}
	invalid := []string{"", "/a.ts", "../a.ts", "a/../b.ts", "C:\\a.ts", "./a.ts", "a//b.ts"}
	for _, p := range invalid {
		if err := ValidatePath(p); err == nil {
			t.Errorf("ValidatePath(%q) = nil, want error", p)
		}
	}
}
