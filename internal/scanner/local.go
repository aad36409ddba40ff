package scanner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// LocalSource enumerates and reads the local filesystem with
// goroutine-per-directory parallelism.
type LocalSource struct {
	// Log receives V(1) diagnostics for entries dropped during the walk.
	Log logr.Logger
}

// NewLocalSource creates a local source.
func NewLocalSource(log logr.Logger) *LocalSource {
	return &LocalSource{Log: log}
}

// Open opens path for reading.
func (s *LocalSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Stat returns metadata for path, following symlinks.
func (s *LocalSource) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// walkState is shared by every directory goroutine of one Enumerate call.
type walkState struct {
	ctx      context.Context
	opts     Options
	log      logr.Logger
	sem      chan struct{}
	wg       sync.WaitGroup
	counters *Counters
	exclude  map[string]bool
	visited  sync.Map

	mu    sync.Mutex
	files []string
}

// Enumerate walks root and returns the paths of all regular files beneath it,
// joined onto root exactly as given. The result is sorted.
func (s *LocalSource) Enumerate(ctx context.Context, root string, opts Options, progress chan<- Progress) ([]string, error) {
	// Use Stat (not Lstat) so a symlinked root like /tmp -> /private/tmp works
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &os.PathError{Op: "enumerate", Path: root, Err: ErrNotDirectory}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0) * 3
	}

	st := &walkState{
		ctx:      ctx,
		opts:     opts,
		log:      s.Log,
		sem:      make(chan struct{}, concurrency),
		counters: &Counters{},
		exclude:  make(map[string]bool, len(opts.ExcludePatterns)),
	}
	for _, p := range opts.ExcludePatterns {
		st.exclude[p] = true
	}

	stop := StartReporter(st.counters, progress)

	// Track visited directories by canonical path to avoid cycles and duplicates.
	st.visited.Store(canonical(root), true)
	st.walkDir(root)
	st.wg.Wait()
	stop()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(st.files)
	return st.files, nil
}

func (st *walkState) walkDir(dirPath string) {
	select {
	case <-st.ctx.Done():
		return
	default:
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		st.counters.Errors.Add(1)
		st.log.V(1).Info("skipping unreadable directory", "path", dirPath, "error", err.Error())
		return
	}
	st.counters.DirsScanned.Add(1)

	var local []string
	for _, entry := range entries {
		name := entry.Name()

		if !st.opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if st.exclude[name] {
			continue
		}

		fullPath := filepath.Join(dirPath, name)
		mode := entry.Type()

		switch {
		case mode.IsDir():
			st.descend(fullPath)

		case mode&os.ModeSymlink != 0:
			target, err := os.Stat(fullPath)
			if err != nil {
				st.counters.Errors.Add(1)
				st.log.V(1).Info("skipping broken symlink", "path", fullPath, "error", err.Error())
				continue
			}
			if target.IsDir() {
				if st.opts.FollowSymlinks {
					st.descend(fullPath)
				}
				continue
			}
			if target.Mode().IsRegular() {
				local = append(local, fullPath)
			}

		case mode.IsRegular():
			local = append(local, fullPath)

		default:
			// devices, sockets, named pipes
		}
	}

	if len(local) > 0 {
		st.counters.FilesFound.Add(int64(len(local)))
		st.mu.Lock()
		st.files = append(st.files, local...)
		st.mu.Unlock()
	}
}

// descend walks a subdirectory with bounded goroutines. If all workers are
// busy the directory is walked synchronously in the current goroutine
// instead of spawning a blocked one.
func (st *walkState) descend(path string) {
	// Already visited via another path (e.g. followed symlink)
	if _, loaded := st.visited.LoadOrStore(canonical(path), true); loaded {
		return
	}

	select {
	case st.sem <- struct{}{}:
		st.wg.Add(1)
		go func() {
			defer st.wg.Done()
			defer func() { <-st.sem }()
			st.walkDir(path)
		}()
	default:
		st.walkDir(path)
	}
}

func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
