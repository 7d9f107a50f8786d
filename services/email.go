package services

import (
	"fmt"
	"html"
	"log"
	"strings"

	"printera_landing_go/config"
	"printera_landing_go/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/resend/resend-go/v2"
)

// LeadEmailSubject is the subject line of every lead notification
const LeadEmailSubject = "Nuevo lead - PrinTera"

// textPolicy strips any markup from user-supplied text before it is embedded
// in the notification body
var textPolicy = bluemonday.StrictPolicy()

// Email represents an email message
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
}

// Notifier delivers lead notifications to the business inbox
type Notifier interface {
	Send(email *Email) error
}

// Mailer sends email through the Resend API, or logs it to the console when
// the configuration enables test mode
type Mailer struct {
	cfg *config.Config
}

// NewMailer creates a Mailer bound to the loaded configuration
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// BuildLeadNotificationEmail composes the plain-text notification for one
// accepted lead: one labeled line per field, "-" for empty optional fields.
// Replies go straight to the submitter.
func BuildLeadNotificationEmail(cfg *config.Config, lead *models.LeadSubmission) *Email {
	text := strings.Join([]string{
		"Nuevo lead de la landing",
		"Nombre: " + sanitizeText(lead.Nombre),
		"Empresa: " + orPlaceholder(sanitizeText(lead.Empresa)),
		"Email: " + sanitizeText(lead.Email),
		"Teléfono: " + orPlaceholder(sanitizeText(lead.Telefono)),
		"Detalle: " + sanitizeText(lead.Detalle),
	}, "\n")

	return &Email{
		To:       []string{cfg.ContactTo},
		ReplyTo:  lead.Email,
		Subject:  LeadEmailSubject,
		TextBody: text,
	}
}

// Send sends an email using the Resend API
func (m *Mailer) Send(email *Email) error {
	// In development mode, log the email instead of sending
	if m.cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (test mode - not actually sent)")
		return nil
	}

	// Validate configuration
	if m.cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY no configurada")
	}
	if len(email.To) == 0 || email.To[0] == "" {
		return fmt.Errorf("CONTACT_TO no configurado")
	}
	if email.TextBody == "" {
		return fmt.Errorf("email must have a TextBody")
	}

	client := resend.NewClient(m.cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.cfg.EmailFromName, m.cfg.EmailFrom),
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Reply-To: %s", email.ReplyTo)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// sanitizeText strips markup but keeps the result plain text: the policy
// entity-escapes its output, which must be undone before the text lands in
// the plain-text body
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func orPlaceholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
