package models

import (
	"time"

	"ativas/internal/parser"
)

// Card is one imported campaign card with everything extracted from it
type Card struct {
	ID              string                  `json:"id" yaml:"id"`
	Name            string                  `json:"name" yaml:"name"`             // Header display name
	FullTitle       string                  `json:"fullTitle" yaml:"full_title"`  // Whole first line
	CardURL         string                  `json:"cardUrl" yaml:"card_url"`      // First http(s) line
	Notes           string                  `json:"notes" yaml:"notes,omitempty"` // Free text, user edited
	RawText         string                  `json:"rawText" yaml:"-"`             // Stored as the file body
	Events          []parser.JourneyEvent   `json:"events" yaml:"events"`
	Offers          []parser.OfferPlacement `json:"offers" yaml:"offers"`
	ChannelCounts   parser.ChannelCounts    `json:"channelCounts" yaml:"channel_counts"`
	IsPontual       bool                    `json:"isPontual" yaml:"is_pontual"`
	JourneyDisabled bool                    `json:"journeyDisabled" yaml:"journey_disabled,omitempty"`
	Archived        bool                    `json:"archived" yaml:"archived,omitempty"`
	IncidentPaused  bool                    `json:"incidentPaused" yaml:"incident_paused,omitempty"`
	EffectiveStart  *time.Time              `json:"effectiveStart" yaml:"effective_start,omitempty"`
	EffectiveEnd    *time.Time              `json:"effectiveEnd" yaml:"effective_end,omitempty"`
	BufferEnd       *time.Time              `json:"bufferEnd" yaml:"buffer_end,omitempty"`
	CreatedAt       time.Time               `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time               `json:"updatedAt" yaml:"updated_at"`

	// Derived from the body when read from disk; never persisted
	Preview   string `json:"-" yaml:"-"`
	BodyTitle string `json:"-" yaml:"-"`
}

// AlwaysOn reports whether the card runs without a fixed end.
func (c Card) AlwaysOn() bool {
	return !c.IsPontual
}

// FindEvent returns the index of the event with the given id, or -1
func (c Card) FindEvent(id string) int {
	for i, ev := range c.Events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

// DatedEvents returns the events that carry an instant
func (c Card) DatedEvents() []parser.JourneyEvent {
	var out []parser.JourneyEvent
	for _, ev := range c.Events {
		if ev.At != "" {
			out = append(out, ev)
		}
	}
	return out
}

// TotalTouches sums the per-channel journey counts
func (c Card) TotalTouches() int {
	return c.ChannelCounts.Total()
}
