package whatsapp

import (
	"net/url"
	"strings"
	"testing"
)

func TestLinkEncodesMessage(t *testing.T) {
	b := NewBuilder("2348000000000")

	link := b.Link("Hello, I want to order from your store.")

	if !strings.HasPrefix(link, "https://wa.me/2348000000000?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link must parse: %v", err)
	}

	if got := u.Query().Get("text"); got != "Hello, I want to order from your store." {
		t.Fatalf("message must round-trip through the encoding, got %q", got)
	}
}

func TestLinkDefaults(t *testing.T) {
	b := NewBuilder("")

	link := b.Link("")

	if !strings.Contains(link, DefaultNumber) {
		t.Errorf("expected the default number, got %s", link)
	}

	u, _ := url.Parse(link)

	if got := u.Query().Get("text"); got != DefaultMessage {
		t.Errorf("expected the default message, got %q", got)
	}
}

func TestPaymentLinkMessageShape(t *testing.T) {
	b := NewBuilder("2348000000000")

	link := b.PaymentLink("AI Course Bundle", "₦15,000", "jane@example.com")

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link must parse: %v", err)
	}

	want := "Hello, I want to pay for AI Course Bundle (₦15,000). My email is jane@example.com."

	if got := u.Query().Get("text"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
