// Package notify sends staff notifications for new leads.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/config"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"gopkg.in/gomail.v2"
)

type Notifier interface {
	NotifyLead(ctx context.Context, l *model.Lead) error
}

// MailNotifier emails each lead to a fixed staff address over SMTP.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailNotifier(cfg *config.Config) *MailNotifier {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &MailNotifier{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   from,
		to:     cfg.LeadNotifyTo,
	}
}

func (n *MailNotifier) NotifyLead(ctx context.Context, l *model.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(LeadMessage(n.from, n.to, l)); err != nil {
		return fmt.Errorf("sending lead email: %w", err)
	}
	return nil
}

// NopNotifier is used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) NotifyLead(context.Context, *model.Lead) error { return nil }

var kindLabels = map[model.LeadKind]string{
	model.LeadKindContact:      "Contact form",
	model.LeadKindScheduleCall: "Call request",
	model.LeadKindJoinProject:  "Project join request",
}

// LeadMessage builds the notification email. Replies go to the lead.
func LeadMessage(from, to string, l *model.Lead) *gomail.Message {
	label := kindLabels[l.Kind]
	if label == "" {
		label = "Lead"
	}

	var body strings.Builder
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&body, "%s: %s\n", k, v)
		}
	}
	row("Name", l.Name)
	row("Email", l.Email)
	row("Phone", l.Phone)
	row("Company", l.Company)
	row("Service", l.Service)
	row("Project", l.ProjectInterest)
	row("Preferred date", l.PreferredDate)
	row("Preferred time", l.PreferredTime)
	if l.Message != "" {
		body.WriteString("\n")
		body.WriteString(l.Message)
		body.WriteString("\n")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Reply-To", l.Email)
	m.SetHeader("Subject", fmt.Sprintf("%s: %s", label, l.Name))
	m.SetBody("text/plain", body.String())
	return m
}
