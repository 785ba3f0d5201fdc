// Package email sends operational notices to the console's ops mailbox.
package email

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"

	"github.com/ns-ai-search/console/internal/shared/config"
	"github.com/ns-ai-search/console/internal/shared/goroutine"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// DefaultSendTimeout bounds one SMTP exchange. gomail only limits the dial,
// so a server that accepts and then stalls would otherwise block forever.
const DefaultSendTimeout = 15 * time.Second

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MessengerEvent describes a connect or disconnect for the ops notice.
type MessengerEvent struct {
	Domain   string
	PageID   string
	PageName string
	At       time.Time
}

// WebsiteEvent describes a newly registered website.
type WebsiteEvent struct {
	Domain  string
	Title   string
	Plan    string
	Credits int
}

type OpsNotifier struct {
	from       string
	recipients []string
	sender     sender
	timeout    time.Duration
	printer    *message.Printer
	logger     logger.Interface
}

// NewOpsNotifier returns a notifier that is a no-op when SMTP or the
// recipient list is not configured.
func NewOpsNotifier(cfg config.EmailConfig, log logger.Interface) *OpsNotifier {
	n := &OpsNotifier{
		recipients: cfg.OpsRecipients,
		timeout:    DefaultSendTimeout,
		printer:    message.NewPrinter(language.English),
		logger:     log,
	}
	if cfg.FromName != "" {
		n.from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	} else {
		n.from = cfg.FromAddress
	}
	if cfg.IsConfigured() {
		n.sender = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	return n
}

func (n *OpsNotifier) Enabled() bool {
	return n.sender != nil && len(n.recipients) > 0
}

func (n *OpsNotifier) MessengerConnected(ctx context.Context, ev MessengerEvent) error {
	subject := fmt.Sprintf("Messenger connected: %s", ev.Domain)
	lines := []string{
		fmt.Sprintf("Website: %s", ev.Domain),
		fmt.Sprintf("Facebook page: %s (%s)", ev.PageName, ev.PageID),
		fmt.Sprintf("Connected at: %s", ev.At.UTC().Format(time.RFC3339)),
	}
	return n.send(ctx, subject, "Messenger connected", lines)
}

func (n *OpsNotifier) MessengerDisconnected(ctx context.Context, ev MessengerEvent) error {
	subject := fmt.Sprintf("Messenger disconnected: %s", ev.Domain)
	lines := []string{
		fmt.Sprintf("Website: %s", ev.Domain),
		fmt.Sprintf("Facebook page: %s", ev.PageID),
		fmt.Sprintf("Disconnected at: %s", ev.At.UTC().Format(time.RFC3339)),
	}
	return n.send(ctx, subject, "Messenger disconnected", lines)
}

func (n *OpsNotifier) WebsiteCreated(ctx context.Context, ev WebsiteEvent) error {
	subject := fmt.Sprintf("New website: %s", ev.Domain)
	lines := []string{
		fmt.Sprintf("Website: %s (%s)", ev.Domain, ev.Title),
		fmt.Sprintf("Plan: %s", ev.Plan),
		n.printer.Sprintf("Monthly credits: %d", ev.Credits),
	}
	return n.send(ctx, subject, "New website registered", lines)
}

// send returns once the message is handed off or ctx/the send timeout ends,
// whichever comes first. A stalled exchange keeps its goroutine until the
// SMTP connection gives up.
func (n *OpsNotifier) send(ctx context.Context, subject, heading string, lines []string) error {
	if !n.Enabled() {
		n.logger.Debugw("ops email not configured, skipping", "subject", subject)
		return nil
	}

	var htmlBody strings.Builder
	htmlBody.WriteString("<html><body><h2>")
	htmlBody.WriteString(html.EscapeString(heading))
	htmlBody.WriteString("</h2>")
	for _, l := range lines {
		htmlBody.WriteString("<p>")
		htmlBody.WriteString(html.EscapeString(l))
		htmlBody.WriteString("</p>")
	}
	htmlBody.WriteString("</body></html>")

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", heading+"\n\n"+strings.Join(lines, "\n")+"\n")
	m.AddAlternative("text/html", htmlBody.String())

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan error, 1)
	goroutine.SafeGo(n.logger, "ops-email", func() {
		done <- n.sender.DialAndSend(m)
	})

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email %q: %w", subject, ctx.Err())
	}
}
