// Package config loads timewatch settings and parses interval and color values.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicit path (the --config flag)
//  2. ~/.config/timewatch/config.toml
//
// A missing file is not an error; Default() is returned instead. Empty
// fields keep their defaults.
//
// # TOML Format
//
//	[general]
//	shell = "zsh"
//	shell_options = "-o pipefail"
//	no_shell = false
//	skip_empty_diffs = true
//	bell = false
//
//	[styles]
//	diff_add_fg = "black"
//	diff_add_bg = "#2e7d32"
//	search_bg = "220"
//
// Style keys are <name>_fg or <name>_bg for diff_add, diff_delete, search and
// stderr. Values are color names, palette indexes (0-15 map to the named
// ANSI colors, 16-255 to the extended palette) or #rrggbb.
//
// # Intervals
//
// ParseInterval accepts Go durations and bare seconds, matching what users
// type for watch(1). ValidateInterval enforces MinInterval.
//
// # Paths
//
// BackupPath and LogPath place auto-saved histories and the debug log under
// the XDG data and state directories via github.com/adrg/xdg.
package config
