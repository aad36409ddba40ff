package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/ops"
	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/report"
	"github.com/sadopc/vgrep/internal/scanner"
	"github.com/sadopc/vgrep/internal/search"
	"github.com/sadopc/vgrep/internal/ui/components"
	"github.com/sadopc/vgrep/internal/ui/style"
)

// DefaultExportPath is where E writes when no --export path was given.
const DefaultExportPath = "vgrep-export.json"

// ViewMode represents the current view.
type ViewMode int

const (
	ViewResults ViewMode = iota
	ViewFileTypes
)

// AppState represents the application state.
type AppState int

const (
	StateSearching AppState = iota
	StateBrowsing
	StateHelp
	StateConfirmOverwrite
	StateExporting
)

// Focus is the pane receiving navigation keys.
type Focus int

const (
	FocusList Focus = iota
	FocusPreview
)

// SearchConfig describes the run the browser performs on start.
type SearchConfig struct {
	Root    string
	Remote  string // user@host, shown in the header
	Source  scanner.Source
	Options scanner.Options
	Matcher pattern.Matcher
	Pattern string
	Engine  pattern.Engine
	Workers int
	Logger  logr.Logger
}

// SearchDoneMsg is sent when a search or import completes.
type SearchDoneMsg struct {
	Results *model.ResultSet
	Summary search.Summary
	Err     error
}

// ExportDoneMsg is sent when export completes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	Search     SearchConfig
	ImportPath string
	ExportPath string
	Version    string

	state    AppState
	viewMode ViewMode
	focus    Focus
	width    int
	height   int

	results    *model.ResultSet
	sortConfig model.SortConfig
	files      []*model.FileResult
	cursor     int
	offset     int
	matcher    pattern.Matcher
	preview    components.Preview

	live     *liveProgress
	progress components.SearchProgress

	searchCancel   context.CancelFunc
	searchCancelMu sync.Mutex

	theme  style.Theme
	keys   KeyMap
	layout style.Layout

	pendingExport string
	statusMsg     string
	notice        string
	fatalErr      error
}

// NewApp creates an App that runs cfg on start.
func NewApp(cfg SearchConfig) *App {
	a := newApp()
	a.Search = cfg
	a.matcher = cfg.Matcher
	a.results = model.NewResultSet(cfg.Root, cfg.Pattern, string(cfg.Engine))
	return a
}

// NewAppFromImport creates an App that loads results from a JSON export.
// Previews are read from the local filesystem.
func NewAppFromImport(importPath string) *App {
	a := newApp()
	a.ImportPath = importPath
	a.Search.Source = scanner.NewLocalSource(logr.Discard())
	return a
}

func newApp() *App {
	theme := style.DefaultTheme()
	return &App{
		state:      StateSearching,
		viewMode:   ViewResults,
		focus:      FocusList,
		sortConfig: model.DefaultSort(),
		preview:    components.NewPreview(theme),
		live:       newLiveProgress(),
		theme:      theme,
		keys:       DefaultKeyMap(),
	}
}

func (a *App) setSearchCancel(cancel context.CancelFunc) {
	a.searchCancelMu.Lock()
	a.searchCancel = cancel
	a.searchCancelMu.Unlock()
}

func (a *App) callSearchCancel() {
	a.searchCancelMu.Lock()
	if a.searchCancel != nil {
		a.searchCancel()
	}
	a.searchCancelMu.Unlock()
}

func (a *App) Init() tea.Cmd {
	if a.ImportPath != "" {
		return a.importCmd()
	}
	return tea.Batch(a.searchCmd(), a.tickCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = style.NewLayout(msg.Width, msg.Height)
		a.preview.SetSize(a.layout.ContentWidth(), a.layout.PreviewHeight())
		return a, nil

	case SearchDoneMsg:
		if msg.Err != nil {
			a.fatalErr = msg.Err
			return a, tea.Quit
		}
		a.fatalErr = nil
		if msg.Results != nil {
			a.results = msg.Results
		}
		if a.matcher == nil {
			a.matcher = importedMatcher(a.results)
		}
		a.progress = a.live.snapshot()
		a.state = StateBrowsing
		a.cursor = 0
		a.offset = 0
		a.refreshSorted()
		return a, tea.Batch(tea.ClearScreen, a.selectionChanged())

	case tickMsg:
		if a.state == StateSearching {
			a.progress = a.live.snapshot()
			return a, a.tickCmd()
		}
		return a, nil

	case PreviewMsg:
		sel := a.selected()
		if sel == nil || sel.Path != msg.Path {
			return a, nil // stale
		}
		if msg.Err != nil && len(msg.Lines) == 0 {
			a.preview.SetError(msg.Path, msg.Err)
			return a, nil
		}
		a.preview.SetContent(msg.Path, msg.Lines, matchLines(sel), a.matcher)
		return a, nil

	case ExportDoneMsg:
		a.state = StateBrowsing
		if msg.Err != nil {
			a.statusMsg = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			a.notice = fmt.Sprintf("Exported to %s", msg.Path)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.state == StateBrowsing && a.viewMode == ViewResults {
			return a, a.preview.Update(msg)
		}
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		a.callSearchCancel()
		return a, tea.Quit
	}

	switch a.state {
	case StateSearching:
		if key.Matches(msg, a.keys.Quit) {
			a.callSearchCancel()
			return a, tea.Quit
		}
		return a, nil

	case StateHelp:
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}
		return a, nil

	case StateConfirmOverwrite:
		if key.Matches(msg, a.keys.ConfirmYes) {
			return a, a.exportCmd(a.pendingExport)
		}
		if key.Matches(msg, a.keys.ConfirmNo) {
			a.state = StateBrowsing
			a.pendingExport = ""
			return a, tea.ClearScreen
		}
		return a, nil

	case StateBrowsing:
		return a.handleBrowsingKey(msg)
	}

	return a, nil
}

func (a *App) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	a.notice = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.state = StateHelp
		return a, tea.ClearScreen

	case key.Matches(msg, a.keys.ToggleFileTypes):
		if a.viewMode == ViewResults {
			a.viewMode = ViewFileTypes
		} else {
			a.viewMode = ViewResults
		}
		return a, tea.ClearScreen

	case key.Matches(msg, a.keys.Export):
		return a, a.prepareExport()

	case key.Matches(msg, a.keys.SortName):
		a.toggleSort(model.SortByName)
		return a, nil
	case key.Matches(msg, a.keys.SortCount):
		a.toggleSort(model.SortByCount)
		return a, nil
	case key.Matches(msg, a.keys.SortMtime):
		a.toggleSort(model.SortByMtime)
		return a, nil
	case key.Matches(msg, a.keys.SortPath):
		a.toggleSort(model.SortByPath)
		return a, nil
	}

	if a.viewMode != ViewResults {
		return a, nil
	}

	if a.focus == FocusPreview {
		switch {
		case key.Matches(msg, a.keys.Back):
			a.focus = FocusList
		case key.Matches(msg, a.keys.NextMatch):
			a.preview.NextMatch()
		case key.Matches(msg, a.keys.PrevMatch):
			a.preview.PrevMatch()
		default:
			return a, a.preview.Update(msg)
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		return a, a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		return a, a.moveCursor(1)
	case key.Matches(msg, a.keys.Top):
		return a, a.moveCursor(-len(a.files))
	case key.Matches(msg, a.keys.Bottom):
		return a, a.moveCursor(len(a.files))
	case key.Matches(msg, a.keys.Focus):
		if a.selected() != nil {
			a.focus = FocusPreview
		}
	case key.Matches(msg, a.keys.NextMatch):
		a.preview.NextMatch()
	case key.Matches(msg, a.keys.PrevMatch):
		a.preview.PrevMatch()
	case key.Matches(msg, a.keys.PageUp), key.Matches(msg, a.keys.PageDown):
		return a, a.preview.Update(msg)
	}

	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.state {
	case StateSearching:
		return components.RenderSearchProgress(a.theme, a.progress, a.Search.Pattern, a.width, a.height)

	case StateHelp:
		return components.RenderHelp(a.theme, a.width, a.height)

	case StateConfirmOverwrite:
		return components.RenderOverwriteDialog(a.theme, a.pendingExport, a.width, a.height)

	case StateBrowsing, StateExporting:
		return a.renderBrowsing()
	}

	return ""
}

func (a *App) renderBrowsing() string {
	header := components.RenderHeader(a.theme, a.headerInfo(), a.width)

	var content string
	switch a.viewMode {
	case ViewResults:
		rl := a.resultList()
		rl.EnsureVisible()
		a.offset = rl.Offset
		content = rl.RenderColumnHeader() + "\n" + rl.Render() + "\n" + a.preview.View(a.focus == FocusPreview)

	case ViewFileTypes:
		content = components.RenderFileTypes(a.theme, a.files, a.layout.ContentWidth(), a.layout.ContentHeight()+1)
	}

	statusBar := components.RenderStatusBar(a.theme, components.StatusInfo{
		Totals:   a.results.Totals(),
		Sort:     a.sortConfig,
		ErrorMsg: a.statusMsg,
		Notice:   a.notice,
	}, a.width)

	return header + "\n" + content + "\n" + statusBar
}

func (a *App) headerInfo() components.HeaderInfo {
	return components.HeaderInfo{
		Root:    a.results.Root,
		Pattern: a.results.Pattern,
		Engine:  a.results.Engine,
		Remote:  a.Search.Remote,
	}
}

func (a *App) resultList() *components.ResultList {
	return &components.ResultList{
		Theme:   a.theme,
		Layout:  a.layout,
		Items:   a.files,
		Sort:    a.sortConfig,
		Cursor:  a.cursor,
		Offset:  a.offset,
		Focused: a.focus == FocusList,
	}
}

func (a *App) selected() *model.FileResult {
	if a.cursor < 0 || a.cursor >= len(a.files) {
		return nil
	}
	return a.files[a.cursor]
}

// moveCursor moves the selection and loads the preview when it changed.
func (a *App) moveCursor(delta int) tea.Cmd {
	prev := a.cursor
	a.cursor += delta
	if a.cursor >= len(a.files) {
		a.cursor = len(a.files) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor == prev {
		return nil
	}
	return a.selectionChanged()
}

func (a *App) selectionChanged() tea.Cmd {
	sel := a.selected()
	if sel == nil || a.Search.Source == nil {
		return nil
	}
	if sel.Path == a.preview.Path() {
		return nil
	}
	return loadPreviewCmd(a.Search.Source, sel.Path)
}

// toggleSort re-sorts the list and keeps the selected file under the cursor.
func (a *App) toggleSort(field model.SortField) {
	a.sortConfig = a.sortConfig.Toggle(field)
	var keep string
	if sel := a.selected(); sel != nil {
		keep = sel.Path
	}
	a.refreshSorted()
	for i, f := range a.files {
		if f.Path == keep {
			a.cursor = i
			break
		}
	}
}

func (a *App) refreshSorted() {
	if a.results == nil {
		a.files = nil
		return
	}
	files := a.results.Files()
	model.SortFiles(files, a.sortConfig)
	a.files = files
	if a.cursor >= len(a.files) {
		a.cursor = max(len(a.files)-1, 0)
	}
}

// searchCmd enumerates and searches in a background goroutine. Progress is
// published through a.live and picked up by the tick handler.
func (a *App) searchCmd() tea.Cmd {
	cfg := a.Search
	results := a.results
	live := a.live
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		a.setSearchCancel(cancel)

		progressCh := make(chan scanner.Progress, 10)
		relayDone := make(chan struct{})
		go func() {
			defer close(relayDone)
			for p := range progressCh {
				live.setEnum(p)
			}
		}()

		files, err := cfg.Source.Enumerate(ctx, cfg.Root, cfg.Options, progressCh)
		close(progressCh)
		<-relayDone
		if err != nil {
			return SearchDoneMsg{Err: err}
		}

		results.SetTotal(int64(len(files)))
		live.beginSearch(int64(len(files)))

		s := &search.Searcher{
			Source:  cfg.Source,
			Matcher: cfg.Matcher,
			Workers: cfg.Workers,
			Logger:  cfg.Logger,
		}
		sink := search.MultiSink{live, &report.Collector{Results: results, Source: cfg.Source}}
		summary := s.Run(ctx, files, sink)
		return SearchDoneMsg{Results: results, Summary: summary}
	}
}

func (a *App) importCmd() tea.Cmd {
	path := a.ImportPath
	return func() tea.Msg {
		rs, err := ops.ImportJSON(path)
		return SearchDoneMsg{Results: rs, Err: err}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// prepareExport asks for confirmation before replacing an existing file.
func (a *App) prepareExport() tea.Cmd {
	path := a.ExportPath
	if path == "" {
		path = DefaultExportPath
	}
	if _, err := os.Stat(path); err == nil {
		a.pendingExport = path
		a.state = StateConfirmOverwrite
		return tea.ClearScreen
	} else if !errors.Is(err, os.ErrNotExist) {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		return nil
	}
	return a.exportCmd(path)
}

func (a *App) exportCmd(path string) tea.Cmd {
	if a.results == nil {
		return nil
	}

	a.state = StateExporting
	a.pendingExport = ""
	results := a.results
	version := a.Version
	return func() tea.Msg {
		err := ops.ExportJSON(results, path, version)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// FatalError returns a fatal search/import error, if any.
func (a *App) FatalError() error { return a.fatalErr }

// Results returns the collected results.
func (a *App) Results() *model.ResultSet { return a.results }

func matchLines(f *model.FileResult) []int {
	lines := make([]int, len(f.Matches))
	for i, m := range f.Matches {
		lines[i] = m.Line
	}
	return lines
}

// importedMatcher recompiles the pattern recorded in an export so previews
// can highlight it. Highlighting is skipped when that fails.
func importedMatcher(rs *model.ResultSet) pattern.Matcher {
	if rs == nil || rs.Pattern == "" {
		return nil
	}
	engine, err := pattern.ParseEngine(rs.Engine)
	if err != nil {
		return nil
	}
	m, err := pattern.Compile(rs.Pattern, engine)
	if err != nil {
		return nil
	}
	return m
}
