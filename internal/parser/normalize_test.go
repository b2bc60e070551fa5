package parser

import (
	"testing"
	"time"
)

func TestParseFlexibleInstant(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-03-10T09:00", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), true},
		{"2024-03-10T09:00:30", time.Date(2024, 3, 10, 9, 0, 30, 0, time.UTC), true},
		{"2024-03-10T09:00:00Z", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), true},
		{"2024-03-10T09:00:00-03:00", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), true},
		{"2024-03-10 09:00", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), true},
		{"2024-03-10 9:05:07", time.Date(2024, 3, 10, 9, 5, 7, 0, time.UTC), true},
		{"2024-03-10T 9:05", time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC), true},
		{"2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"  2024-03-10  ", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"2024-13-10", time.Time{}, false},
		{"2024-02-30", time.Time{}, false},
		{"2024-03-10 25:00", time.Time{}, false},
		{"10/03/2024", time.Time{}, false},
		{"amanhã", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseFlexibleInstant(tt.input, time.UTC)
		if ok != tt.ok {
			t.Errorf("ParseFlexibleInstant(%q): expected ok=%v, got %v", tt.input, tt.ok, ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseFlexibleInstant(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestParseFlexibleInstant_UsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	got, ok := ParseFlexibleInstant("2024-03-10 09:00", loc)
	if !ok {
		t.Fatal("expected date to parse")
	}
	if FormatInstant(got) != "2024-03-10T12:00:00.000Z" {
		t.Errorf("expected 2024-03-10T12:00:00.000Z, got %s", FormatInstant(got))
	}
}

func TestFormatInstant_RoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s := FormatInstant(in)
	if s != "2024-03-10T09:00:00.000Z" {
		t.Fatalf("unexpected format %q", s)
	}
	out, ok := ParseInstant(s)
	if !ok || !out.Equal(in) {
		t.Errorf("round trip failed: %v %v", out, ok)
	}
	if FormatInstant(time.Time{}) != "" {
		t.Error("expected zero time to format as empty string")
	}
}

func TestNormalizeChannel(t *testing.T) {
	tests := []struct {
		input    string
		expected Channel
	}{
		{"Push", ChannelPush},
		{"PUSH NOTIFICATION", ChannelPush},
		{"E-mail", ChannelEmail},
		{"email marketing", ChannelEmail},
		{"WhatsApp", ChannelWhatsApp},
		{"wpp", ChannelWhatsApp},
		{"Zap", ChannelWhatsApp},
		{"SMS", ChannelSMS},
		{"In-App", ChannelInApp},
		{"inapp", ChannelInApp},
		{"Banner Home", ChannelBanner},
		{"MktScreen", ChannelMktScreen},
		{"Marketing Screen", ChannelMktScreen},
		{"MKT", ChannelMktScreen},
		{"mkt screen", ChannelMktScreen},
		{"mktplace", ChannelOther},
		{"carta", ChannelOther},
		{"", ChannelOther},
		// push is checked before banner
		{"push banner", ChannelPush},
	}

	for _, tt := range tests {
		if got := NormalizeChannel(tt.input); got != tt.expected {
			t.Errorf("NormalizeChannel(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestStableHash(t *testing.T) {
	// FNV-1a 32-bit reference values
	tests := []struct {
		input    string
		expected string
	}{
		{"", "811c9dc5"},
		{"a", "e40c292c"},
		{"foobar", "bf9cf968"},
	}
	for _, tt := range tests {
		if got := StableHash(tt.input); got != tt.expected {
			t.Errorf("StableHash(%q): expected %s, got %s", tt.input, tt.expected, got)
		}
	}

	if StableHash("Comunicação") != StableHash("Comunicação") {
		t.Error("hash must be deterministic")
	}
	if StableHash("a") == StableHash("b") {
		t.Error("expected different hashes for different input")
	}
	if len(StableHash("qualquer coisa longa")) != 8 {
		t.Error("expected 8 hex digits")
	}
}
