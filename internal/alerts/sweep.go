// Package alerts runs the scheduled expired/low-stock sweep and mails a
// summary when anything needs attention.
package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crucial707/ems-inventory/internal/metrics"
	"github.com/crucial707/ems-inventory/internal/notify"
	"github.com/crucial707/ems-inventory/internal/repo"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically checks inventory for expired and low-stock items.
// It queries the repository directly: the sweep is an internal process, not
// a caller with a session principal.
type Sweeper struct {
	Repo      *repo.InventoryRepo
	Mailer    *notify.Mailer
	Recipient string
}

// Run schedules the sweep under spec (cron syntax, e.g. "@hourly") and
// returns the started cron so the caller can stop it on shutdown.
func (s *Sweeper) Run(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return nil, fmt.Errorf("alerts: bad cron spec %q: %w", spec, err)
	}
	c.Start()
	slog.Info("alert sweep scheduled", "spec", spec)
	return c, nil
}

// Sweep performs one pass. Failures are logged, never fatal: a broken SMTP
// server must not take the scheduler down.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	expired, err := s.Repo.Expired(ctx)
	if err != nil {
		slog.Error("alert sweep: expired query failed", "error", err)
		return
	}
	low, err := s.Repo.LowStock(ctx)
	if err != nil {
		slog.Error("alert sweep: low-stock query failed", "error", err)
		return
	}

	metrics.LowStockItems.Set(float64(len(low)))

	if len(expired) == 0 && len(low) == 0 {
		return
	}
	slog.Info("alert sweep findings", "expired", len(expired), "low_stock", len(low))

	if !s.Mailer.Enabled() || s.Recipient == "" {
		return
	}

	var body strings.Builder
	if len(expired) > 0 {
		body.WriteString("Expired items:\n")
		for _, e := range expired {
			fmt.Fprintf(&body, "  %s (quantity %d, expired %s)\n",
				e.Name, e.Quantity, e.ExpirationDate.Format("2006-01-02"))
		}
	}
	if len(low) > 0 {
		body.WriteString("Low stock items:\n")
		for _, l := range low {
			fmt.Fprintf(&body, "  %s (quantity %d, threshold %d)\n",
				l.Name, l.Quantity, l.MinThreshold)
		}
	}

	subject := fmt.Sprintf("EMS inventory alerts: %d expired, %d low stock", len(expired), len(low))
	if err := s.Mailer.Send(s.Recipient, subject, body.String()); err != nil {
		slog.Error("alert sweep: email failed", "error", err)
	}
}
