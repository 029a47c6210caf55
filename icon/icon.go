// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII or Unicode squares depending on user preference.
package icon

import (
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Info
	Warn
	Question
	Mark
	Refresh
	Diary
	Blog
	Mail
	Timeline
	Presences
	Workspace
	Unread
	Attachment
	Folder
	File
	Absent
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

var icons = map[Icon]*iconDef{
	Fail:       {emoji: "💀", nerd: "", plain: "X", squares: "🟥"},
	Success:    {emoji: "🎉", nerd: "", plain: "OK", squares: "🟩"},
	Info:       {emoji: "💡", nerd: "", plain: "i", squares: "🟦"},
	Warn:       {emoji: "⚠️", nerd: "", plain: "!", squares: "🟨"},
	Question:   {emoji: "❓", nerd: "", plain: "?", squares: "🟪"},
	Mark:       {emoji: "▶", nerd: "", plain: ">", squares: "▪"},
	Refresh:    {emoji: "🔄", nerd: "", plain: "~", squares: "🔳"},
	Diary:      {emoji: "📓", nerd: "", plain: "D", squares: "🟫"},
	Blog:       {emoji: "📰", nerd: "", plain: "B", squares: "🟧"},
	Mail:       {emoji: "✉️", nerd: "", plain: "M", squares: "🟦"},
	Timeline:   {emoji: "🔔", nerd: "", plain: "T", squares: "🟨"},
	Presences:  {emoji: "🙋", nerd: "", plain: "P", squares: "🟩"},
	Workspace:  {emoji: "🗂️", nerd: "", plain: "W", squares: "🟪"},
	Unread:     {emoji: "🔵", nerd: "", plain: "*", squares: "🔷"},
	Attachment: {emoji: "📎", nerd: "", plain: "@", squares: "◽"},
	Folder:     {emoji: "📁", nerd: "", plain: "/", squares: "🟫"},
	File:       {emoji: "📄", nerd: "", plain: "-", squares: "⬜"},
	Absent:     {emoji: "🚫", nerd: "", plain: "A", squares: "🟥"},
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
