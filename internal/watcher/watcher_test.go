package watcher

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/notebook/internal/models"
	"github.com/starford/notebook/internal/noteservice"
	"github.com/starford/notebook/internal/storage"
	"github.com/starford/notebook/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_ExternalWriteReloads(t *testing.T) {
	store, file := testutil.TestStore(t)
	rec := &testutil.Recorder{}
	svc := noteservice.NewService(store, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, file, svc.Reload, testutil.Logger())

	time.Sleep(100 * time.Millisecond)

	// A second process writing the same snapshot.
	other, err := storage.NewFile(filepath.Dir(file.Location()), filepath.Base(file.Location()))
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Save([]models.Record{{Name: "remote", Contents: "written elsewhere"}}); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := store.Get("remote")
		return ok
	}, "external snapshot was not reloaded")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		for _, e := range rec.Events() {
			if e.Kind == noteservice.KindReloaded {
				return true
			}
		}
		return false
	}, "expected a reloaded event")
}

func TestWatcher_OwnWritesIgnored(t *testing.T) {
	store, file := testutil.TestStore(t)

	var reloads atomic.Int32
	reload := func(context.Context) error {
		reloads.Add(1)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, file, reload, testutil.Logger())

	time.Sleep(100 * time.Millisecond)

	if err := store.Add("local", "saved by this process"); err != nil {
		t.Fatal(err)
	}

	time.Sleep(3 * debounce)
	if n := reloads.Load(); n != 0 {
		t.Errorf("reloads = %d, want 0", n)
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	_, file := testutil.TestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, file, func(context.Context) error { return nil }, testutil.Logger())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
