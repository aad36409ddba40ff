package report

import (
	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/scanner"
)

// Collector adds per-file results to a ResultSet. Files with matches are
// stat'ed through Source for size and modification time.
type Collector struct {
	Results *model.ResultSet
	Source  scanner.Source
}

func (c *Collector) Match(model.Match) {}

func (c *Collector) FileError(string, error) { c.Results.AddError() }

func (c *Collector) FileDone(path string, matches []model.Match) {
	if len(matches) == 0 {
		c.Results.Add(nil)
		return
	}
	fr := model.NewFileResult(path, matches)
	if c.Source != nil {
		if info, err := c.Source.Stat(path); err == nil {
			fr.Size = info.Size()
			fr.Mtime = info.ModTime()
		}
	}
	c.Results.Add(fr)
}

func (c *Collector) Progress(int64, int64, string) {}
