package cron

import (
	"context"
	"cuentas_claras/internal/cache"
	"cuentas_claras/internal/metrics"
	"cuentas_claras/internal/repositories/store"
	"cuentas_claras/internal/settlement"
	"cuentas_claras/pkg/utils"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxConcurrentEmails = 5

type ReminderSource interface {
	PendingReminders(ctx context.Context) ([]store.PendingReminder, error)
}

type EmailSender interface {
	SendEmail(to, subject, body string, attachments ...string) error
}

type Jobs struct {
	// Schedule of the debtor reminders in standard five-field cron syntax.
	ReminderSchedule string
	Source           ReminderSource
	// Sender is nil when reminders are disabled.
	Sender EmailSender
	// MemCache, when set, has its expired entries swept every ten minutes.
	MemCache *cache.MemoryCache
}

func StartCronJob(jobs Jobs) (*cron.Cron, error) {
	c := cron.New()

	if jobs.Sender != nil {
		_, err := c.AddFunc(jobs.ReminderSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if _, err := SendReminderEmailsToDebtors(ctx, jobs.Source, jobs.Sender); err != nil {
				utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
			}
		})
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to schedule debtor reminder job")
		}
	}

	if jobs.MemCache != nil {
		_, err := c.AddFunc("@every 10m", func() {
			if n := jobs.MemCache.CleanExpired(); n > 0 {
				utils.Logger.Debugf("Removed %d expired report cache entries", n)
			}
		})
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to schedule cache cleanup job")
		}
	}

	c.Start()
	utils.Logger.WithFields(logrus.Fields{
		"reminders":     jobs.Sender != nil,
		"schedule":      jobs.ReminderSchedule,
		"cache_cleanup": jobs.MemCache != nil,
	}).Info("Cron jobs started")
	return c, nil
}

type debtorReminder struct {
	name  string
	email string
	total decimal.Decimal
	lines []utils.ReminderLine
}

// SendReminderEmailsToDebtors e-mails every participant with pending debts
// one summary of what they owe. It returns how many e-mails went out.
func SendReminderEmailsToDebtors(ctx context.Context, src ReminderSource, sender EmailSender) (int, error) {
	pending, err := src.PendingReminders(ctx)
	if err != nil {
		return 0, utils.ErrorHandler(err, "failed to load pending debts")
	}

	var order []int64
	byParticipant := make(map[int64]*debtorReminder)
	for _, p := range pending {
		r := byParticipant[p.ParticipantID]
		if r == nil {
			r = &debtorReminder{name: p.Name, email: p.Email}
			byParticipant[p.ParticipantID] = r
			order = append(order, p.ParticipantID)
		}
		r.total = r.total.Add(p.Amount)
		r.lines = append(r.lines, utils.ReminderLine{
			EventName: p.EventName,
			OwedTo:    p.OwedTo,
			Amount:    settlement.Format(p.Amount),
			Since:     p.Since,
		})
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		sent    int
		sem     = make(chan struct{}, maxConcurrentEmails)
		errChan = make(chan error, len(order))
	)

	for _, id := range order {
		r := byParticipant[id]

		wg.Add(1)
		go func(r *debtorReminder) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errChan <- fmt.Errorf("reminder to %s not sent: %w", r.email, err)
				return
			}

			total := settlement.Format(r.total)
			subject, body := utils.DebtorReminderEmail(r.name, total, r.lines)
			if err := sender.SendEmail(r.email, subject, body); err != nil {
				metrics.RemindersSent.WithLabelValues("error").Inc()
				errChan <- fmt.Errorf("failed to send reminder email to %s: %w", r.email, err)
				return
			}

			metrics.RemindersSent.WithLabelValues("sent").Inc()
			mu.Lock()
			sent++
			mu.Unlock()
			utils.Logger.Infof("Sent reminder to %s (%s): $%s in %d debt(s)", r.name, r.email, total, len(r.lines))
		}(r)
	}

	wg.Wait()
	close(errChan)

	failed := 0
	for e := range errChan {
		failed++
		utils.Logger.Error(e)
	}

	utils.Logger.Infof("Finished sending debtor reminder emails: %d sent, %d failed", sent, failed)
	if failed > 0 {
		return sent, fmt.Errorf("%d of %d reminder emails failed", failed, len(order))
	}
	return sent, nil
}
