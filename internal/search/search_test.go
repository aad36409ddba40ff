package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/scanner"
)

// recordingSink captures every event for assertions.
type recordingSink struct {
	mu       sync.Mutex
	matches  []model.Match
	errs     map[string]error
	done     map[string]int
	progress []int64
	totals   []int64
}

func newRecordingSink() *recordingSink {
	return &recordingSink{errs: map[string]error{}, done: map[string]int{}}
}

func (r *recordingSink) Match(m model.Match) {
	r.mu.Lock()
	r.matches = append(r.matches, m)
	r.mu.Unlock()
}

func (r *recordingSink) FileError(path string, err error) {
	r.mu.Lock()
	r.errs[path] = err
	r.mu.Unlock()
}

func (r *recordingSink) FileDone(path string, matches []model.Match) {
	r.mu.Lock()
	r.done[path] = len(matches)
	r.mu.Unlock()
}

func (r *recordingSink) Progress(n, total int64, _ string) {
	r.mu.Lock()
	r.progress = append(r.progress, n)
	r.totals = append(r.totals, total)
	r.mu.Unlock()
}

// brokenSource serves fixed content and then fails the read.
type brokenSource struct {
	scanner.LocalSource
	content string
}

type brokenReader struct {
	r io.Reader
}

func (b *brokenReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		return n, errors.New("device went away")
	}
	return n, err
}

func (b *brokenReader) Close() error { return nil }

func (s *brokenSource) Open(string) (io.ReadCloser, error) {
	return &brokenReader{r: strings.NewReader(s.content)}, nil
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func mustCompile(t *testing.T, expr string) pattern.Matcher {
	t.Helper()
	m, err := pattern.Compile(expr, pattern.EngineRE2)
	require.NoError(t, err)
	return m
}

func runSearch(t *testing.T, root, expr string, workers int) (*recordingSink, Summary) {
	t.Helper()
	src := scanner.NewLocalSource(logr.Discard())
	files, err := src.Enumerate(context.Background(), root, scanner.DefaultOptions(), nil)
	require.NoError(t, err)

	sink := newRecordingSink()
	s := &Searcher{Source: src, Matcher: mustCompile(t, expr), Workers: workers}
	return sink, s.Run(context.Background(), files, sink)
}

func TestRun_HelloExample(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": "Hello\nworld\n",
		"b.txt": "HELLO again\n",
	})

	sink, sum := runSearch(t, root, "hello", 0)

	got := make([]string, 0, len(sink.matches))
	for _, m := range sink.matches {
		got = append(got, m.String())
	}
	sort.Strings(got)
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt") + ":1: Hello",
		filepath.Join(root, "b.txt") + ":1: HELLO again",
	}, got)

	assert.ElementsMatch(t, []int64{1, 2}, sink.progress)
	assert.Equal(t, []int64{2, 2}, sink.totals)
	assert.Equal(t, Summary{
		Files: 2, Processed: 2, Matches: 2, FilesMatched: 2, Duration: sum.Duration,
	}, sum)
}

func TestRun_ProgressCountsEachFileOnce(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 200; i++ {
		files[fmt.Sprintf("d%02d/f%03d.txt", i%17, i)] = "needle\nhay\n"
	}
	root := writeTree(t, files)

	sink, sum := runSearch(t, root, "needle", 8)

	require.Len(t, sink.progress, 200)
	sorted := append([]int64(nil), sink.progress...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, n := range sorted {
		require.Equal(t, int64(i+1), n, "progress values must be 1..total with no gaps or repeats")
	}
	assert.Equal(t, int64(200), sum.Processed)
	assert.Equal(t, int64(200), sum.Matches)
	assert.Len(t, sink.done, 200)
}

func TestRun_MatchSetStableAcrossRuns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"one.go":       "package one\n// TODO fix\n",
		"two/three.md": "todo: nothing\nDone\n",
		"two/four.txt": "no match here\n",
	})

	first, _ := runSearch(t, root, "todo", 4)
	second, _ := runSearch(t, root, "todo", 1)
	assert.ElementsMatch(t, first.matches, second.matches)
	assert.Len(t, first.matches, 2)
}

func TestRun_PatternSyntaxIsNotEscaped(t *testing.T) {
	root := writeTree(t, map[string]string{
		"x.txt": "abc\naXc\nac\n\n",
	})

	sink, _ := runSearch(t, root, "a.c", 0)
	assert.Len(t, sink.matches, 2)

	all, _ := runSearch(t, root, ".*", 0)
	assert.Len(t, all.matches, 4, ".* matches every line, including the empty one")
}

func TestRun_OpenErrorContinues(t *testing.T) {
	root := writeTree(t, map[string]string{"ok.txt": "match me\n"})
	missing := filepath.Join(root, "gone.txt")
	files := []string{filepath.Join(root, "ok.txt"), missing}

	sink := newRecordingSink()
	s := &Searcher{
		Source:  scanner.NewLocalSource(logr.Discard()),
		Matcher: mustCompile(t, "match"),
	}
	sum := s.Run(context.Background(), files, sink)

	require.Contains(t, sink.errs, missing)
	assert.True(t, errors.Is(sink.errs[missing], os.ErrNotExist))
	assert.Len(t, sink.matches, 1)
	assert.ElementsMatch(t, []int64{1, 2}, sink.progress)
	assert.Equal(t, int64(1), sum.Errors)
	assert.Equal(t, int64(2), sum.Processed)
}

func TestRun_CanceledContextSkipsFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x\n", "b.txt": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := newRecordingSink()
	s := &Searcher{Source: scanner.NewLocalSource(logr.Discard()), Matcher: mustCompile(t, "x")}
	sum := s.Run(ctx, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")}, sink)

	assert.Empty(t, sink.progress)
	assert.Equal(t, int64(0), sum.Processed)
	assert.Equal(t, int64(2), sum.Files)
}

func TestScanFile_LineHandling(t *testing.T) {
	tests := []struct {
		name    string
		content string
		expr    string
		want    []model.Match
	}{
		{
			name:    "ascending line order",
			content: "foo\nbar\nfoo bar\n",
			expr:    "foo",
			want:    []model.Match{{Line: 1, Text: "foo"}, {Line: 3, Text: "foo bar"}},
		},
		{
			name:    "crlf stripped",
			content: "Alpha\r\nbeta\r\nALPHA\r\n",
			expr:    "alpha$",
			want:    []model.Match{{Line: 1, Text: "Alpha"}, {Line: 3, Text: "ALPHA"}},
		},
		{
			name:    "no trailing newline",
			content: "first\nlast match",
			expr:    "match",
			want:    []model.Match{{Line: 2, Text: "last match"}},
		},
		{
			name:    "invalid utf8 skipped but numbered",
			content: "hit one\n\xff\xfe hit\nhit three\n",
			expr:    "hit",
			want:    []model.Match{{Line: 1, Text: "hit one"}, {Line: 3, Text: "hit three"}},
		},
		{
			name:    "long line",
			content: strings.Repeat("a", 200000) + "needle\n",
			expr:    "needle",
			want:    []model.Match{{Line: 1, Text: strings.Repeat("a", 200000) + "needle"}},
		},
		{
			name:    "empty file",
			content: "",
			expr:    ".*",
			want:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := writeTree(t, map[string]string{"f.txt": tc.content})
			path := filepath.Join(root, "f.txt")

			got, err := ScanFile(scanner.NewLocalSource(logr.Discard()), path, mustCompile(t, tc.expr), logr.Discard())
			require.NoError(t, err)

			for i := range tc.want {
				tc.want[i].Path = path
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScanFile_ReadErrorKeepsEarlierMatches(t *testing.T) {
	src := &brokenSource{content: "hit\nmiss\nhit again\npartial hit"}

	got, err := ScanFile(src, "virtual.txt", mustCompile(t, "hit"), logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, []model.Match{
		{Path: "virtual.txt", Line: 1, Text: "hit"},
		{Path: "virtual.txt", Line: 3, Text: "hit again"},
		{Path: "virtual.txt", Line: 4, Text: "partial hit"},
	}, got)
}

func TestScanFile_OpenError(t *testing.T) {
	_, err := ScanFile(scanner.NewLocalSource(logr.Discard()), filepath.Join(t.TempDir(), "nope"), mustCompile(t, "x"), logr.Discard())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCounter_ConcurrentIncrementsAreDistinct(t *testing.T) {
	var c Counter
	const n = 1000
	seen := make([]int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i] = c.Inc()
		}(i)
	}
	wg.Wait()

	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	for i, v := range seen {
		require.Equal(t, int64(i+1), v)
	}
	assert.Equal(t, int64(n), c.Load())
}

func TestMultiSink_FansOut(t *testing.T) {
	a, b := newRecordingSink(), newRecordingSink()
	ms := MultiSink{a, b, DiscardSink{}}

	ms.Match(model.Match{Path: "p", Line: 1, Text: "t"})
	ms.FileError("q", io.ErrUnexpectedEOF)
	ms.FileDone("p", []model.Match{{Path: "p", Line: 1, Text: "t"}})
	ms.Progress(1, 2, "p")

	for _, s := range []*recordingSink{a, b} {
		assert.Len(t, s.matches, 1)
		assert.Equal(t, io.ErrUnexpectedEOF, s.errs["q"])
		assert.Equal(t, 1, s.done["p"])
		assert.Equal(t, []int64{1}, s.progress)
	}
}
