package util

import (
	"github.com/sadopc/vgrep/internal/model"
)

// FileIcon returns an icon for a file, by extension where one is known and
// by category otherwise.
func FileIcon(name string) string {
	if icon, ok := extIcons[model.GetExtension(name)]; ok {
		return icon
	}
	if icon, ok := categoryIcons[model.ClassifyFile(name)]; ok {
		return icon
	}
	return "📄"
}

var categoryIcons = map[model.FileCategory]string{
	model.CatCode:     "💻",
	model.CatConfig:   "⚙️",
	model.CatDocument: "📝",
	model.CatLog:      "📜",
	model.CatData:     "📊",
	model.CatBinary:   "📦",
}

var extIcons = map[string]string{
	".go":    "🐹",
	".py":    "🐍",
	".js":    "🟨",
	".ts":    "🔷",
	".rs":    "🦀",
	".java":  "☕",
	".rb":    "💎",
	".php":   "🐘",
	".html":  "🌐",
	".css":   "🎨",
	".sql":   "🗃️",
	".md":    "📝",
	".txt":   "📄",
	".csv":   "📊",
	".pdf":   "📕",
	".lock":  "🔒",
	".env":   "🔐",
	".sh":    "🐚",
	".bash":  "🐚",
	".zsh":   "🐚",
	".json":  "📋",
	".yaml":  "📋",
	".yml":   "📋",
	".toml":  "📋",
}
