package realtime

import "testing"

func TestMessageChannelOrderIndependent(t *testing.T) {
	a := "2f1e9c1a-0000-4000-8000-000000000001"
	b := "9b8d7c6e-0000-4000-8000-000000000002"
	if MessageChannel(a, b) != MessageChannel(b, a) {
		t.Fatal("message channel must not depend on argument order")
	}
	want := "messages:" + a + ":" + b
	if got := MessageChannel(b, a); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFeedChannelNormalizesDomain(t *testing.T) {
	if FeedChannel("Stanford.EDU") != FeedChannel("stanford.edu") {
		t.Fatal("feed channel must use the normalized domain")
	}
	if FeedChannel("alumni.stanford.edu") != "feed:stanford.edu" {
		t.Fatal("feed channel must collapse domain aliases")
	}
}

func TestEventChannel(t *testing.T) {
	if got := EventChannel("ucla.edu"); got != "events:ucla.edu" {
		t.Fatalf("got %q", got)
	}
}
