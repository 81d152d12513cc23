package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"doc-authorizer/internal/config"
	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/i18n"
	"doc-authorizer/internal/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrDisabled = errors.New("email delivery is not configured")

// Service delivers decision notices to requesters that cannot be reached on
// the chat transport.
type Service interface {
	Enabled() bool
	SendDecision(ctx context.Context, toEmail, recipientName string, notice domain.DecisionNotice) error
}

// Sender is the part of the resend client used here.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender    Sender
	fromEmail string
	locale    string
	tmpl      *template.Template
	log       *zap.Logger
}

// NewService returns a disabled service when no API key is configured.
func NewService(cfg *config.Config, log *zap.Logger) Service {
	var sender Sender
	if cfg.ResendAPIKey != "" {
		sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return NewServiceWithSender(sender, cfg.FromEmail, cfg.Locale, log)
}

func NewServiceWithSender(sender Sender, fromEmail, locale string, log *zap.Logger) Service {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/decision.html"))
	return &service{
		sender:    sender,
		fromEmail: fromEmail,
		locale:    locale,
		tmpl:      tmpl,
		log:       logger.OrNop(log).Named("email"),
	}
}

func (s *service) Enabled() bool {
	return s.sender != nil
}

func (s *service) SendDecision(ctx context.Context, toEmail, recipientName string, notice domain.DecisionNotice) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	color := "#10b981"
	titleKey, bodyKey, subjectKey := "EMAIL_APPROVED_TITLE", "EMAIL_APPROVED_BODY", "EMAIL_APPROVED_SUBJECT"
	if !notice.Approved {
		color = "#ef4444"
		titleKey, bodyKey, subjectKey = "EMAIL_REJECTED_TITLE", "EMAIL_REJECTED_BODY", "EMAIL_REJECTED_SUBJECT"
	}

	data := struct {
		Title       string
		Color       string
		Greeting    string
		Body        string
		ReasonLabel string
		Reason      string
		Link        string
		LinkLabel   string
	}{
		Title:       i18n.Translate(s.locale, titleKey),
		Color:       color,
		Greeting:    i18n.Translatef(s.locale, "EMAIL_GREETING", recipientName),
		Body:        i18n.Translatef(s.locale, bodyKey, notice.TypeDescription, notice.Folio, notice.AuthorizerName),
		ReasonLabel: i18n.Translate(s.locale, "EMAIL_REASON_LABEL"),
		Reason:      notice.Reason,
		Link:        notice.ViewURL,
		LinkLabel:   i18n.Translate(s.locale, "BUTTON_VIEW_DOCUMENT"),
	}

	subject := i18n.Translatef(s.locale, subjectKey, notice.TypeDescription, notice.Folio)
	return s.sendEmail(toEmail, subject, data)
}

func (s *service) sendEmail(toEmail, subject string, data interface{}) error {
	var body bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&body, "layout.html", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Autorizaciones <%s>", s.fromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	if _, err := s.sender.Send(params); err != nil {
		s.log.Error("failed to send email", zap.String("to", toEmail), zap.Error(err))
		return domain.NewUpstreamError("email", err)
	}
	return nil
}
