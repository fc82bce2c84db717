package schedule

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type fakeCrontab struct {
	content string
	writes  int
	readErr error
}

func (f *fakeCrontab) Read() (string, error) { return f.content, f.readErr }

func (f *fakeCrontab) Write(content string) error {
	f.writes++
	f.content = content
	return nil
}

const cmd = "/usr/local/bin/sportspage fetch >> /tmp/fetch.log 2>&1"

func TestInstallIdempotent(t *testing.T) {
	ct := &fakeCrontab{content: "MAILTO=me@example.com\n15 * * * * /usr/bin/backup\n"}

	changed, err := Install(ct, "0 3 * * *", cmd)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Error("expected first install to change the crontab")
	}

	changed, _ = Install(ct, "0 3 * * *", cmd)
	if changed {
		t.Error("expected second install to be a no-op")
	}
	if ct.writes != 1 {
		t.Errorf("expected 1 write, got %d", ct.writes)
	}
	if strings.Count(ct.content, Marker) != 1 {
		t.Errorf("expected exactly one entry, got:\n%s", ct.content)
	}
	if !strings.HasPrefix(ct.content, "MAILTO=me@example.com\n15 * * * * /usr/bin/backup\n") {
		t.Errorf("expected existing lines preserved, got:\n%s", ct.content)
	}
}

func TestInstallReplacesStaleEntry(t *testing.T) {
	ct := &fakeCrontab{content: Entry("0 4 * * *", cmd) + "\n"}

	changed, err := Install(ct, "0 3 * * *", cmd)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Error("expected stale entry to be replaced")
	}
	if ct.content != Entry("0 3 * * *", cmd)+"\n" {
		t.Errorf("unexpected crontab:\n%s", ct.content)
	}
}

func TestInstallDropsDuplicates(t *testing.T) {
	entry := Entry("0 3 * * *", cmd)
	ct := &fakeCrontab{content: entry + "\n" + entry + "\n"}

	changed, _ := Install(ct, "0 3 * * *", cmd)
	if !changed {
		t.Error("expected duplicate entry to be removed")
	}
	if strings.Count(ct.content, Marker) != 1 {
		t.Errorf("expected one entry, got:\n%s", ct.content)
	}
}

func TestInstallReadError(t *testing.T) {
	ct := &fakeCrontab{readErr: errors.New("permission denied")}
	if _, err := Install(ct, "0 3 * * *", cmd); err == nil {
		t.Error("expected read error")
	}
	if ct.writes != 0 {
		t.Error("expected no write after read failure")
	}
}

func TestRemoveAndInstalled(t *testing.T) {
	ct := &fakeCrontab{content: "15 * * * * /usr/bin/backup\n"}

	if removed, _ := Remove(ct); removed {
		t.Error("expected nothing to remove")
	}
	if _, ok, _ := Installed(ct); ok {
		t.Error("expected no entry installed")
	}

	Install(ct, "0 3 * * *", cmd)
	line, ok, _ := Installed(ct)
	if !ok || !strings.HasPrefix(line, "0 3 * * * ") {
		t.Errorf("expected installed entry, got %q", line)
	}

	removed, err := Remove(ct)
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}
	if ct.content != "15 * * * * /usr/bin/backup\n" {
		t.Errorf("expected only the unrelated line left, got:\n%s", ct.content)
	}
}

func TestNextRun(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, loc)

	next, err := NextRun("0 3 * * *", loc, now)
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	want := time.Date(2026, 3, 15, 3, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("expected %s, got %s", want, next)
	}

	if _, err := NextRun("not a spec", loc, now); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestRunDaemon(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan error, 1)

	go func() {
		done <- RunDaemon(ctx, "0 3 * * *", time.UTC, true, func(context.Context) error {
			runs.Add(1)
			cancel()
			return nil
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunDaemon: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	if runs.Load() != 1 {
		t.Errorf("expected startup run, got %d runs", runs.Load())
	}
}

func TestRunDaemonBadSpec(t *testing.T) {
	err := RunDaemon(context.Background(), "every day", time.UTC, false, func(context.Context) error { return nil })
	if err == nil {
		t.Error("expected error for invalid spec")
	}
}
