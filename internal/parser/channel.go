package parser

import (
	"regexp"
	"strings"
)

// Channel is the normalized vocabulary of touchpoint channels.
type Channel string

const (
	ChannelPush      Channel = "push"
	ChannelEmail     Channel = "email"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelSMS       Channel = "sms"
	ChannelInApp     Channel = "inapp"
	ChannelBanner    Channel = "banner"
	ChannelMktScreen Channel = "mktscreen"
	ChannelOther     Channel = "other"
)

// Space separates journey touches from offer placements.
type Space string

const (
	SpaceJourney Space = "journey"
	SpaceOffers  Space = "offers"
)

// JourneyChannels lists the per-recipient touch channels in display order.
var JourneyChannels = []Channel{ChannelPush, ChannelEmail, ChannelWhatsApp, ChannelSMS}

// OfferChannels lists the placement channels in display order.
var OfferChannels = []Channel{ChannelInApp, ChannelBanner, ChannelMktScreen}

// Upper returns the channel tag as shown in labels ("PUSH", "MKTSCREEN").
func (c Channel) Upper() string {
	return strings.ToUpper(string(c))
}

// IsJourney reports whether c is one of the journey channels.
func (c Channel) IsJourney() bool {
	for _, j := range JourneyChannels {
		if c == j {
			return true
		}
	}
	return false
}

// IsOffer reports whether c is one of the offer channels.
func (c Channel) IsOffer() bool {
	for _, o := range OfferChannels {
		if c == o {
			return true
		}
	}
	return false
}

var mktToken = regexp.MustCompile(`\bmkt\b`)

type channelRule struct {
	channel Channel
	match   func(s string) bool
}

func containsAny(tokens ...string) func(string) bool {
	return func(s string) bool {
		for _, t := range tokens {
			if strings.Contains(s, t) {
				return true
			}
		}
		return false
	}
}

// channelRules is evaluated top to bottom; the first match wins.
var channelRules = []channelRule{
	{ChannelPush, containsAny("push")},
	{ChannelEmail, containsAny("email", "e-mail")},
	{ChannelWhatsApp, containsAny("whatsapp", "wpp", "zap")},
	{ChannelSMS, containsAny("sms")},
	{ChannelInApp, containsAny("inapp", "in-app")},
	{ChannelBanner, containsAny("banner")},
	{ChannelMktScreen, func(s string) bool {
		return containsAny("mktscreen", "marketing screen")(s) || mktToken.MatchString(s)
	}},
}

// NormalizeChannel maps a free-form channel label onto the fixed vocabulary.
// Unknown labels yield ChannelOther.
func NormalizeChannel(raw string) Channel {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ChannelOther
	}
	for _, rule := range channelRules {
		if rule.match(s) {
			return rule.channel
		}
	}
	return ChannelOther
}
