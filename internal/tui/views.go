package tui

import "ativas/internal/tui/messages"

// Re-export types from messages package for convenience
type ViewType = messages.ViewType

const (
	ViewMonth  = messages.ViewMonth
	ViewCards  = messages.ViewCards
	ViewImport = messages.ViewImport
)

type SwitchViewMsg = messages.SwitchViewMsg
type FocusCardMsg = messages.FocusCardMsg
type DataRefreshMsg = messages.DataRefreshMsg
type StatusMsg = messages.StatusMsg
