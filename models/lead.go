package models

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinNameLength is the minimum accepted length for the submitter's name
	MinNameLength = 2
	// MinDetailsLength is the minimum accepted length for the request details
	MinDetailsLength = 5
)

// emailRegex mirrors the syntax check the contact form applies client-side:
// local part, "@", domain labels and a TLD of at least two letters
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-']+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`)

// LeadSubmission represents one contact-form attempt from the landing page.
// Field names keep the Spanish wire contract used by the form.
type LeadSubmission struct {
	Nombre   string `json:"nombre"`
	Empresa  string `json:"empresa"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Detalle  string `json:"detalle"`
	// Website is the honeypot field: invisible in the form, so any value
	// means an automated submitter filled it
	Website        string `json:"website"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// FieldIssue reports one failed validation rule so the form can show
// per-field feedback
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field
func (l *LeadSubmission) Normalize() {
	l.Nombre = strings.TrimSpace(l.Nombre)
	l.Empresa = strings.TrimSpace(l.Empresa)
	l.Email = strings.TrimSpace(l.Email)
	l.Telefono = strings.TrimSpace(l.Telefono)
	l.Detalle = strings.TrimSpace(l.Detalle)
	l.RecaptchaToken = strings.TrimSpace(l.RecaptchaToken)
	// The honeypot is deliberately not trimmed: bots that paste whitespace
	// should still trip it
}

// Validate checks every field constraint and returns one issue per failed
// rule. An empty slice means the submission is acceptable.
func (l *LeadSubmission) Validate() []FieldIssue {
	var issues []FieldIssue

	if utf8.RuneCountInString(l.Nombre) < MinNameLength {
		issues = append(issues, FieldIssue{
			Field:   "nombre",
			Message: "Ingresa tu nombre (mín. 2 caracteres)",
		})
	}

	if !emailRegex.MatchString(l.Email) {
		issues = append(issues, FieldIssue{
			Field:   "email",
			Message: "Correo inválido",
		})
	}

	if utf8.RuneCountInString(l.Detalle) < MinDetailsLength {
		issues = append(issues, FieldIssue{
			Field:   "detalle",
			Message: "Cuéntanos un poco más sobre tu necesidad (mín. 5 caracteres)",
		})
	}

	return issues
}

// IsHoneypotTriggered reports whether the invisible form field was filled in
func (l *LeadSubmission) IsHoneypotTriggered() bool {
	return l.Website != ""
}
