package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
	"github.com/BruksfildServices01/bay-scheduler/internal/validators"
)

// Notifier delivers one message to one recipient.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

// ConsoleNotifier logs instead of sending. Used when no SMTP host is set.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Notify(ctx context.Context, to, subject, body string) error {
	slog.InfoContext(ctx, "notification", "to", to, "subject", subject, "body", body)
	return nil
}

var ErrUndeliverable = errors.New("undeliverable recipient")

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPNotifier struct {
	cfg      SMTPConfig
	resolver validators.Resolver
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, resolver: net.DefaultResolver}
}

// Notify refuses recipients no relay could deliver to (malformed address,
// null MX, no mail host) instead of letting the relay bounce them.
func (n *SMTPNotifier) Notify(ctx context.Context, to, subject, body string) error {
	if err := validators.CheckRecipient(ctx, n.resolver, to); err != nil {
		return fmt.Errorf("%w: %w", ErrUndeliverable, err)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ========================================
// Booking confirmation
// ========================================

// Confirmations mails the customer when an admin confirms a booking.
type Confirmations struct {
	notifier    Notifier
	frontendURL string
}

func NewConfirmations(n Notifier, frontendURL string) *Confirmations {
	return &Confirmations{
		notifier:    n,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (c *Confirmations) Handle(ctx context.Context, ev audit.Event) error {
	if ev.Action != audit.ActionBookingStatusChanged || ev.Booking == nil {
		return nil
	}
	b := ev.Booking
	if b.Status != string(domain.StatusConfirmed) || b.User == nil || b.User.Email == "" {
		return nil
	}

	subject, body := ConfirmationMessage(*b, c.frontendURL)
	return c.notifier.Notify(ctx, b.User.Email, subject, body)
}

// ConfirmationMessage renders the confirmation mail for b.
func ConfirmationMessage(b models.Booking, frontendURL string) (subject, body string) {
	subject = "Booking Confirmed - #" + b.ReferenceNumber

	start, end := b.StartTime, b.EndTime
	if t, err := domain.ParseTimeOfDay(start); err == nil {
		start = t.String()
	}
	if t, err := domain.ParseTimeOfDay(end); err == nil {
		end = t.String()
	}

	var sb strings.Builder
	name := "there"
	if b.User != nil && b.User.Name != "" {
		name = b.User.Name
	}
	fmt.Fprintf(&sb, "Hello %s,\n\n", name)
	fmt.Fprintf(&sb, "Your booking #%s has been confirmed.\n\n", b.ReferenceNumber)
	fmt.Fprintf(&sb, "Date: %s\n", b.BookingDate.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&sb, "Time: %s - %s\n", start, end)
	if b.Vehicle != nil {
		fmt.Fprintf(&sb, "Vehicle: %d %s %s (%s)\n", b.Vehicle.Year, b.Vehicle.Make, b.Vehicle.Model, b.Vehicle.LicensePlate)
	}
	if b.ServiceBay != nil {
		fmt.Fprintf(&sb, "Bay: %s\n", b.ServiceBay.Name)
	}
	if len(b.Services) > 0 {
		sb.WriteString("\nServices:\n")
		for _, s := range b.Services {
			label := fmt.Sprintf("Service #%d", s.ServiceID)
			if s.Service != nil {
				label = s.Service.Name
			}
			fmt.Fprintf(&sb, "  - %s: $%s\n", label, s.Price.StringFixed(2))
		}
	}
	fmt.Fprintf(&sb, "\nTotal: $%s\n", b.TotalPrice.StringFixed(2))
	if frontendURL != "" {
		fmt.Fprintf(&sb, "\nView your booking: %s/bookings/%d\n", frontendURL, b.ID)
	}
	sb.WriteString("\nThank you for choosing us.\n")

	return subject, sb.String()
}

var _ audit.Sink = (*Confirmations)(nil)
