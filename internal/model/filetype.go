package model

import (
	"path"
	"strings"
)

// FileCategory is the coarse type shown in the "Type" column of the browser.
type FileCategory int

const (
	CatOther FileCategory = iota
	CatCode
	CatConfig
	CatDocument
	CatLog
	CatData
	CatBinary
)

// CategoryName returns the display name for a category.
func CategoryName(cat FileCategory) string {
	switch cat {
	case CatCode:
		return "Code"
	case CatConfig:
		return "Config"
	case CatDocument:
		return "Text"
	case CatLog:
		return "Log"
	case CatData:
		return "Data"
	case CatBinary:
		return "Binary"
	default:
		return "Other"
	}
}

// CategoryColor returns the theme color for a category.
func CategoryColor(cat FileCategory) string {
	switch cat {
	case CatCode:
		return "#61AFEF"
	case CatConfig:
		return "#C678DD"
	case CatDocument:
		return "#98C379"
	case CatLog:
		return "#E5C07B"
	case CatData:
		return "#56B6C2"
	case CatBinary:
		return "#E06C75"
	default:
		return "#ABB2BF"
	}
}

var extCategories = map[string]FileCategory{
	".go": CatCode, ".rs": CatCode, ".py": CatCode, ".js": CatCode, ".jsx": CatCode,
	".ts": CatCode, ".tsx": CatCode, ".c": CatCode, ".h": CatCode, ".cc": CatCode,
	".cpp": CatCode, ".hpp": CatCode, ".java": CatCode, ".kt": CatCode, ".rb": CatCode,
	".php": CatCode, ".cs": CatCode, ".swift": CatCode, ".scala": CatCode, ".lua": CatCode,
	".sh": CatCode, ".bash": CatCode, ".zsh": CatCode, ".ps1": CatCode, ".sql": CatCode,
	".html": CatCode, ".css": CatCode, ".scss": CatCode, ".vue": CatCode, ".svelte": CatCode,

	".json": CatConfig, ".yaml": CatConfig, ".yml": CatConfig, ".toml": CatConfig,
	".ini": CatConfig, ".cfg": CatConfig, ".conf": CatConfig, ".env": CatConfig,
	".xml": CatConfig, ".properties": CatConfig, ".mod": CatConfig, ".sum": CatConfig,

	".txt": CatDocument, ".md": CatDocument, ".rst": CatDocument, ".adoc": CatDocument,
	".tex": CatDocument, ".rtf": CatDocument, ".org": CatDocument,

	".log": CatLog, ".out": CatLog, ".err": CatLog, ".trace": CatLog,

	".csv": CatData, ".tsv": CatData, ".jsonl": CatData, ".ndjson": CatData, ".dat": CatData,

	".exe": CatBinary, ".dll": CatBinary, ".so": CatBinary, ".dylib": CatBinary,
	".o": CatBinary, ".a": CatBinary, ".class": CatBinary, ".pyc": CatBinary,
	".wasm": CatBinary, ".zip": CatBinary, ".gz": CatBinary, ".tar": CatBinary,
	".png": CatBinary, ".jpg": CatBinary, ".jpeg": CatBinary, ".gif": CatBinary,
	".pdf": CatBinary, ".db": CatBinary, ".sqlite": CatBinary,
}

// ClassifyFile returns the category for a file name or path.
func ClassifyFile(name string) FileCategory {
	if cat, ok := extCategories[GetExtension(name)]; ok {
		return cat
	}
	return CatOther
}

// GetExtension returns the lowercase extension of a file name or path.
// Both "/" and "\" are treated as separators so remote and local paths agree.
func GetExtension(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.ToLower(path.Ext(name))
}
