package notifications

import "context"

type SendCheckoutNoticeInput struct {
	UserName    string
	UserEmail   string
	ProductName string
	Price       string
	Link        string // pre-built chat deep link for the purchase
}

type Notifier interface {
	SendCheckoutNotice(ctx context.Context, input SendCheckoutNoticeInput) error
}
