package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctags/internal/config"
)

func TestResolveDocsDir_ErrorsWhenMissingDir(t *testing.T) {
	cfg := &config.Config{DocsDir: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := resolveDocsDir(cfg)
	require.Error(t, err)
}

func TestResolveDocsDir_ReturnsAbsoluteDir(t *testing.T) {
	cfg := &config.Config{DocsDir: t.TempDir()}
	abs, err := resolveDocsDir(cfg)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(abs))
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	rebuildReq, trigger := setupRebuildDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-rebuildReq:
	case <-time.After(time.Second):
		t.Fatal("expected a rebuild request")
	}

	select {
	case <-rebuildReq:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRebuildWorkerRunsRequests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var builds atomic.Int32
	done := make(chan struct{}, 4)
	s := NewServer(&config.Config{}, func(context.Context) error {
		builds.Add(1)
		return nil
	}, nil)
	s.OnRebuild = func(error) { done <- struct{}{} }

	rebuildReq := make(chan struct{}, 1)
	s.startRebuildWorker(ctx, rebuildReq)
	rebuildReq <- struct{}{}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rebuild did not run")
	}
	assert.Equal(t, int32(1), builds.Load())
}

func TestHandlerServesSiteAndHealth(t *testing.T) {
	site := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(site, "index.html"), []byte("<h1>home</h1>"), 0o644))

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("doctags_builds_total 1\n"))
	})
	s := NewServer(&config.Config{SiteDir: site}, func(context.Context) error { return nil }, metrics)
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.rebuild(context.Background(), "test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>home</h1>")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "doctags_builds_total")
}

func TestHealthReportsLastError(t *testing.T) {
	s := NewServer(&config.Config{SiteDir: t.TempDir()}, func(context.Context) error {
		return errors.New("boom")
	}, nil)
	s.rebuild(context.Background(), "test")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestSchedulerRejectsNonPositiveInterval(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	s.Start()
	defer func() { _ = s.Stop() }()

	require.Error(t, s.SchedulePeriodicRebuild(0, func() {}))
	require.NoError(t, s.SchedulePeriodicRebuild(time.Hour, func() {}))
	assert.Equal(t, 1, s.Jobs())
}

func TestRebuildWorkerCollapsesRequestsDuringBuild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{}, 4)
	release := make(chan struct{})
	var builds atomic.Int32
	s := NewServer(&config.Config{}, func(context.Context) error {
		if builds.Add(1) == 1 {
			started <- struct{}{}
			<-release
		}
		return nil
	}, nil)
	done := make(chan struct{}, 4)
	s.OnRebuild = func(error) { done <- struct{}{} }

	rebuildReq := make(chan struct{}, 1)
	s.startRebuildWorker(ctx, rebuildReq)
	rebuildReq <- struct{}{}
	<-started

	for i := 0; i < 3; i++ {
		select {
		case rebuildReq <- struct{}{}:
		default:
		}
	}
	close(release)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("expected %d builds, got %d", 2, builds.Load())
		}
	}
	select {
	case <-done:
		t.Fatal("requests during a build must collapse into one follow-up")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, int32(2), builds.Load())
}

func TestFileEventIgnoresGeneratedPage(t *testing.T) {
	docs := t.TempDir()
	page := filepath.Join(docs, "generated", "tags.md")

	s := NewServer(&config.Config{DocsDir: docs}, func(context.Context) error { return nil }, nil)
	s.Ignore = func(path string) bool { return path == page }

	var triggers int
	trigger := func() { triggers++ }

	s.handleFileEvent(nil, fsnotify.Event{Name: page, Op: fsnotify.Write}, trigger)
	assert.Equal(t, 0, triggers, "writing the generated page must not trigger a rebuild")

	s.handleFileEvent(nil, fsnotify.Event{Name: filepath.Join(docs, "guide.md"), Op: fsnotify.Write}, trigger)
	assert.Equal(t, 1, triggers)
}
