package remote

import (
	"context"
	"io"
	"os"
	pathpkg "path"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/sadopc/vgrep/internal/scanner"
)

// SFTPSource is a scanner.Source backed by an SFTP session. It is safe for
// concurrent use; the SFTP client multiplexes requests over one connection.
type SFTPSource struct {
	client sftpClient
	closer io.Closer
	Log    logr.Logger
}

var _ scanner.Source = (*SFTPSource)(nil)

// Close ends the SFTP session and the SSH connection.
func (s *SFTPSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open opens a remote file for reading.
func (s *SFTPSource) Open(path string) (io.ReadCloser, error) {
	return s.client.OpenReader(path)
}

// Stat returns remote metadata, following symlinks.
func (s *SFTPSource) Stat(path string) (os.FileInfo, error) {
	return s.client.Stat(path)
}

type remoteWalk struct {
	ctx      context.Context
	client   sftpClient
	opts     scanner.Options
	log      logr.Logger
	sem      chan struct{}
	wg       sync.WaitGroup
	counters *scanner.Counters
	exclude  map[string]struct{}
	visited  sync.Map

	mu    sync.Mutex
	files []string
}

// Enumerate lists every regular file under root with the same rules as the
// local walk. Returned paths are POSIX paths joined onto the cleaned root.
func (s *SFTPSource) Enumerate(ctx context.Context, root string, opts scanner.Options, progress chan<- scanner.Progress) ([]string, error) {
	root = cleanRemotePath(root)
	info, err := s.client.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &os.PathError{Op: "enumerate", Path: root, Err: scanner.ErrNotDirectory}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0) * 3
	}
	log := s.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	w := &remoteWalk{
		ctx:      ctx,
		client:   s.client,
		opts:     opts,
		log:      log,
		sem:      make(chan struct{}, concurrency),
		counters: &scanner.Counters{},
		exclude:  make(map[string]struct{}, len(opts.ExcludePatterns)),
	}
	for _, p := range opts.ExcludePatterns {
		w.exclude[p] = struct{}{}
	}

	stop := scanner.StartReporter(w.counters, progress)
	w.visited.Store(w.realPath(root), true)
	w.walkDir(root)
	w.wg.Wait()
	stop()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(w.files)
	return w.files, nil
}

func (w *remoteWalk) walkDir(dirPath string) {
	if w.ctx.Err() != nil {
		return
	}

	entries, err := readRemoteDir(w.ctx, w.client, dirPath)
	if err != nil {
		w.counters.Errors.Add(1)
		w.log.V(1).Info("skipping unreadable directory", "path", dirPath, "error", err.Error())
		return
	}
	w.counters.DirsScanned.Add(1)

	var local []string
	for _, entry := range entries {
		name := entry.Name()
		if _, excluded := w.exclude[name]; excluded {
			continue
		}
		if !w.opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := pathpkg.Join(dirPath, name)
		mode := entry.Mode()
		switch {
		case mode&os.ModeSymlink != 0:
			target, err := w.client.Stat(fullPath)
			if err != nil {
				w.counters.Errors.Add(1)
				w.log.V(1).Info("skipping broken symlink", "path", fullPath, "error", err.Error())
				continue
			}
			if target.IsDir() {
				if w.opts.FollowSymlinks {
					w.descend(fullPath)
				}
				continue
			}
			if target.Mode().IsRegular() {
				local = append(local, fullPath)
			}

		case mode.IsDir():
			w.descend(fullPath)

		case mode.IsRegular():
			local = append(local, fullPath)
		}
	}

	if len(local) > 0 {
		w.counters.FilesFound.Add(int64(len(local)))
		w.mu.Lock()
		w.files = append(w.files, local...)
		w.mu.Unlock()
	}
}

func (w *remoteWalk) descend(path string) {
	if _, loaded := w.visited.LoadOrStore(w.realPath(path), true); loaded {
		return
	}
	select {
	case w.sem <- struct{}{}:
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-w.sem }()
			w.walkDir(path)
		}()
	default:
		w.walkDir(path)
	}
}

func (w *remoteWalk) realPath(p string) string {
	if resolved, err := w.client.RealPath(p); err == nil {
		return cleanRemotePath(resolved)
	}
	return p
}

func readRemoteDir(ctx context.Context, client sftpClient, dirPath string) ([]os.FileInfo, error) {
	if rc, ok := client.(interface {
		ReadDirContext(context.Context, string) ([]os.FileInfo, error)
	}); ok {
		return rc.ReadDirContext(ctx, dirPath)
	}
	return client.ReadDir(dirPath)
}

// cleanRemotePath normalizes separators to "/" and cleans the path.
func cleanRemotePath(p string) string {
	if p == "" {
		return "."
	}
	return pathpkg.Clean(strings.ReplaceAll(p, "\\", "/"))
}
