// Package ops reads and writes search results as JSON files.
package ops

// Export file layout, one object:
// {"version":1,"run_id":"...","progname":"vgrep","progver":"dev","timestamp":1700000000,
//  "root":"/src","pattern":"todo","engine":"re2","files_total":3,"errors":0,
//  "files":[{"path":"/src/a.go","size":12,"mtime":1700000000,
//            "matches":[{"line":4,"text":"// TODO"}]}]}

// FormatVersion is the only export version ImportJSON accepts.
const FormatVersion = 1

type exportMatch struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type exportFile struct {
	Path    string        `json:"path"`
	Size    int64         `json:"size"`
	Mtime   int64         `json:"mtime,omitempty"`
	Matches []exportMatch `json:"matches"`
}

// exportDoc is the decoded form used by ImportJSON. ExportJSON streams the
// same fields without building it.
type exportDoc struct {
	Version    int          `json:"version"`
	RunID      string       `json:"run_id"`
	Progname   string       `json:"progname"`
	Progver    string       `json:"progver"`
	Timestamp  int64        `json:"timestamp"`
	Root       string       `json:"root"`
	Pattern    string       `json:"pattern"`
	Engine     string       `json:"engine"`
	FilesTotal int64        `json:"files_total"`
	Errors     int64        `json:"errors"`
	Files      []exportFile `json:"files"`
}
