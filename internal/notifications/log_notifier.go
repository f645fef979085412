package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogNotifier writes the checkout notice to the log instead of delivering it.
// The real delivery is the buyer opening the chat link themselves; this keeps
// an operator-visible trail of every handoff.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendCheckoutNotice(ctx context.Context, in SendCheckoutNoticeInput) error {
	// Optional: simulate slow provider
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	n.log.Info("notification.checkout_notice",
		"email", in.UserEmail,
		"name", in.UserName,
		"product", in.ProductName,
		"price", in.Price,
		"link", in.Link,
	)
	return nil
}
