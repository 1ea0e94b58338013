package realtime

import "github.com/campuslink/campuslink/internal/tenant"

// Channel names are deterministic so they interoperate with the hosted store's
// change feed: the same logical resource always maps to the same channel.

// MessageChannel returns the channel for the direct-message stream between two
// users. The pair is sorted so both sides compute the same name.
func MessageChannel(userA, userB string) string {
	lo, hi := userA, userB
	if hi < lo {
		lo, hi = hi, lo
	}
	return "messages:" + lo + ":" + hi
}

// FeedChannel returns the channel for a tenant's post feed
func FeedChannel(collegeDomain string) string {
	return "feed:" + tenant.Normalize(collegeDomain)
}

// EventChannel returns the channel for a tenant's event stream
func EventChannel(collegeDomain string) string {
	return "events:" + tenant.Normalize(collegeDomain)
}
