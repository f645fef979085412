// Package whatsapp builds wa.me deep links. The handoff to the sales channel
// IS the payment flow: no in-app payment processing exists, the buyer finishes
// the purchase in chat.
package whatsapp

import (
	"fmt"
	"net/url"
)

// DefaultNumber is the store's sales line, digits only with country code.
const DefaultNumber = "2349130587083"

// DefaultMessage is used when a link is requested with no specific context.
const DefaultMessage = "Hello, I want to order from your store."

type Builder struct {
	number string
}

func NewBuilder(number string) Builder {
	if number == "" {
		number = DefaultNumber
	}
	return Builder{number: number}
}

// Link returns the deep link with the message URL-encoded as a query value.
func (b Builder) Link(message string) string {
	if message == "" {
		message = DefaultMessage
	}

	return "https://wa.me/" + b.number + "?text=" + url.QueryEscape(message)
}

// PaymentLink pre-fills the checkout message for a product.
func (b Builder) PaymentLink(productName, price, buyerEmail string) string {
	msg := fmt.Sprintf("Hello, I want to pay for %s (%s). My email is %s.", productName, price, buyerEmail)
	return b.Link(msg)
}
