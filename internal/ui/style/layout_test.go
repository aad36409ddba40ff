package style

import (
	"strings"
	"testing"
)

func TestContentHeight(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{80, 24, 21},
		{10, 5, 2},
		{10, 3, 2}, // clamped
		{10, 0, 2}, // negative, clamped
		{80, 50, 47},
	}

	for _, tt := range tests {
		l := NewLayout(tt.w, tt.h)
		got := l.ContentHeight()
		if got != tt.want {
			t.Errorf("NewLayout(%d,%d).ContentHeight() = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestListAndPreviewShareContent(t *testing.T) {
	for _, h := range []int{0, 5, 24, 50} {
		l := NewLayout(80, h)
		if l.ListHeight() < 1 || l.PreviewHeight() < 1 {
			t.Errorf("height %d: list %d preview %d", h, l.ListHeight(), l.PreviewHeight())
		}
		if l.ListHeight()+l.PreviewHeight() != l.ContentHeight() {
			t.Errorf("height %d: list %d + preview %d != content %d",
				h, l.ListHeight(), l.PreviewHeight(), l.ContentHeight())
		}
	}
}

func TestColumns(t *testing.T) {
	wide := NewLayout(140, 24).Columns()
	if wide.Mtime != MtimeWidth {
		t.Errorf("wide terminal should show mtime, got %d", wide.Mtime)
	}
	fixed := CursorWidth + IconWidth + TypeWidth + CountWidth + 4
	if got := fixed + wide.Mtime + wide.Name + wide.Path; got != 140 {
		t.Errorf("columns sum to %d, want 140", got)
	}

	narrow := NewLayout(50, 24).Columns()
	if narrow.Mtime != 0 {
		t.Errorf("narrow terminal should drop mtime, got %d", narrow.Mtime)
	}

	for _, w := range []int{0, 10, 20} {
		c := NewLayout(w, 24).Columns()
		if c.Name < 4 || c.Path < 4 {
			t.Errorf("width %d: name %d path %d", w, c.Name, c.Path)
		}
	}
}

func TestFullWidth(t *testing.T) {
	got := FullWidth("hi", 5)
	if got != "hi   " {
		t.Errorf("FullWidth(\"hi\", 5) = %q, want %q", got, "hi   ")
	}

	got = FullWidth("hello", 5)
	if got != "hello" {
		t.Errorf("FullWidth(\"hello\", 5) = %q, want %q", got, "hello")
	}
}

func TestBarGradient(t *testing.T) {
	theme := DefaultTheme()
	if theme.BarGradient(0, 0.5) != "" {
		t.Error("zero width bar should be empty")
	}
	bar := theme.BarGradient(10, 0.5)
	if strings.Count(bar, "━") != 5 || strings.Count(bar, "─") != 5 {
		t.Errorf("unexpected bar %q", bar)
	}
	full := theme.BarGradient(4, 2)
	if strings.Count(full, "━") != 4 {
		t.Errorf("ratio above 1 should fill the bar, got %q", full)
	}
}

func TestGradientColor(t *testing.T) {
	theme := DefaultTheme()
	if theme.GradientColor(-1) != theme.GradientStart {
		t.Error("expected start color")
	}
	if theme.GradientColor(1) != theme.GradientEnd {
		t.Error("expected end color")
	}
}
