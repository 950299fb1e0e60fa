package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	tmp := isolate(t)
	raw := writeRaw(t, tmp, `{"apps": {"A": 10}}`)
	dest := filepath.Join(tmp, "data", "latest_metrics.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t.Cleanup(func() {
		rootCmd.SetContext(context.Background())
		watchCmd.SetContext(context.Background())
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", raw})
	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	waitFor := func(cond func() bool) bool {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if cond() {
				return true
			}
			time.Sleep(20 * time.Millisecond)
		}
		return false
	}
	loadApps := func() int {
		data, err := os.ReadFile(dest)
		if err != nil {
			return -1
		}
		return bytes.Count(data, []byte(`"B"`))
	}

	if !waitFor(func() bool { return loadApps() == 0 }) {
		t.Fatal("initial summary was not written")
	}

	// Keep rewriting until the watcher has picked up the change; the first
	// write may land before the watch is registered.
	if !waitFor(func() bool {
		if err := os.WriteFile(raw, []byte(`{"apps": {"A": 10, "B": 10}}`), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
		return loadApps() == 1
	}) {
		t.Fatal("summary was not rebuilt after the raw file changed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
