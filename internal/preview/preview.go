// Package preview serves a built site, watches the docs directory and
// rebuilds on change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/doctags/internal/config"
	ferrors "git.home.luguber.info/inful/doctags/internal/foundation/errors"
	"git.home.luguber.info/inful/doctags/internal/logfields"
)

// BuildFunc runs one full build.
type BuildFunc func(ctx context.Context) error

// Server is a local preview of the site directory.
type Server struct {
	cfg     *config.Config
	build   BuildFunc
	metrics http.Handler
	status  buildStatus
	logger  *slog.Logger

	// Ignore reports paths whose changes must not trigger a rebuild, such
	// as generated pages written into the docs directory.
	Ignore func(path string) bool

	// OnRebuild is called after every rebuild request, mainly for tests.
	OnRebuild func(err error)
}

// buildStatus tracks the last build result for /healthz.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
	builds       int
}

func (bs *buildStatus) record(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (lastErr error, hasGoodBuild bool, builds int) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild, bs.builds
}

// NewServer creates a preview server. metrics may be nil.
func NewServer(cfg *config.Config, build BuildFunc, metrics http.Handler) *Server {
	return &Server{
		cfg:     cfg,
		build:   build,
		metrics: metrics,
		logger:  slog.Default(),
	}
}

// Handler returns the HTTP handler serving the site, /healthz and /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	lastErr, good, builds := s.status.get()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	switch {
	case lastErr != nil:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintf(w, "last build failed: %v\n", lastErr)
	case !good:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintln(w, "no successful build yet")
	default:
		_, _ = fmt.Fprintf(w, "ok (%d builds)\n", builds)
	}
}

// Run builds once, then serves and watches until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	absDocs, err := resolveDocsDir(s.cfg)
	if err != nil {
		return err
	}

	s.rebuild(ctx, "initial")

	watcher, err := setupFileWatcher(absDocs)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := setupRebuildDebouncer(s.cfg.Serve.Debounce)
	s.startRebuildWorker(ctx, rebuildReq)

	scheduler, err := s.startScheduler(trigger)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { _ = scheduler.Stop() }()
	}

	ln, err := net.Listen("tcp", s.cfg.Serve.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to listen").
			WithContext("addr", s.cfg.Serve.Addr).Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return ferrors.WrapError(err, ferrors.CategoryNetwork, "preview server stopped").Build()
		}
		return nil
	})
	g.Go(func() error {
		return s.runLoop(gCtx, watcher, trigger)
	})
	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("Shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) startScheduler(trigger func()) (*Scheduler, error) {
	if s.cfg.Serve.RebuildInterval <= 0 {
		return nil, nil
	}
	scheduler, err := NewScheduler()
	if err != nil {
		return nil, err
	}
	if err := scheduler.SchedulePeriodicRebuild(s.cfg.Serve.RebuildInterval, trigger); err != nil {
		_ = scheduler.Stop()
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

// resolveDocsDir returns the absolute docs directory, which must exist.
func resolveDocsDir(cfg *config.Config) (string, error) {
	absDocs, err := filepath.Abs(cfg.DocsDir)
	if err != nil {
		return "", fmt.Errorf("resolve docs dir: %w", err)
	}
	if st, statErr := os.Stat(absDocs); statErr != nil || !st.IsDir() {
		return "", ferrors.ConfigError("docs dir not found or not a directory").
			WithContext("path", absDocs).Build()
	}
	return absDocs, nil
}

func setupFileWatcher(absDocs string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, absDocs); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// setupRebuildDebouncer returns a request channel and a trigger that sends
// one request after delay has passed without another trigger.
func setupRebuildDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker runs one build at a time. rebuildReq holds at most one
// request, so triggers arriving during a build collapse into one follow-up.
func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				s.rebuild(ctx, "change")
			}
		}
	}()
}

func (s *Server) rebuild(ctx context.Context, reason string) {
	s.logger.Info("Rebuilding site", slog.String("reason", reason))
	err := s.build(ctx)
	if err != nil {
		s.logger.Warn("Rebuild failed", logfields.Error(err))
	}
	s.status.record(err)
	if s.OnRebuild != nil {
		s.OnRebuild(err)
	}
}

func (s *Server) runLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return ferrors.RuntimeError("file watcher closed").Build()
			}
			s.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return ferrors.RuntimeError("file watcher closed").Build()
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || (s.Ignore != nil && s.Ignore(ev.Name)) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	s.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}
