package tui

import "ativas/internal/tui/theme"

var (
	// Status bar
	StatusBarStyle = theme.StatusBar

	// Help text
	HelpStyle = theme.HelpHint

	StatusErrorStyle = theme.Error
	StatusOkStyle    = theme.Ok

	// Tabs
	TabActiveStyle   = theme.TabActive
	TabInactiveStyle = theme.TabInactive
	TabBarStyle      = theme.TabBar
)
