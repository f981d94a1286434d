package formz

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileSource_EmitsInitialContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, []byte(`{"name": "ada"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case data := <-ch:
		if string(data) != `{"name": "ada"}` {
			t.Errorf("data = %s", data)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial emission")
	}
}

func TestFileSource_MissingFileFails(t *testing.T) {
	ctx := context.Background()
	_, err := NewFileSource("/nonexistent/draft.json").Watch(ctx)
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSource_EmitsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, []byte(`{"rev": 1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch // initial

	if err := os.WriteFile(path, []byte(`{"rev": 2}`), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case data := <-ch:
		if string(data) != `{"rev": 2}` {
			t.Errorf("data = %s", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no emission after write")
	}
}

func TestForm_FileSourceSeedsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := os.WriteFile(path, []byte("profile:\n  name: ada\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	form := New(nil, nil).Source(NewFileSource(path))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := form.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer form.Stop()

	v, ok := form.Value("profile.name")
	if !ok || v != "ada" {
		t.Errorf("profile.name = %v, %v", v, ok)
	}
}
