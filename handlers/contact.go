package handlers

import (
	"net/http"

	"printera_landing_go/config"
	"printera_landing_go/models"
	"printera_landing_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContactResponse is the JSON body returned for every submission outcome
type ContactResponse struct {
	OK      bool                `json:"ok"`
	Saved   *bool               `json:"saved,omitempty"`
	Message string              `json:"message,omitempty"`
	Issues  []models.FieldIssue `json:"issues,omitempty"`
}

// ContactHandler runs the lead intake pipeline: parse, validate, honeypot,
// bot-check, notification, ledger append. Collaborators are injected so
// tests can substitute fakes.
type ContactHandler struct {
	cfg      *config.Config
	verifier services.BotVerifier
	notifier services.Notifier
	ledger   services.Ledger
}

// NewContactHandler wires the handler to its external collaborators
func NewContactHandler(cfg *config.Config, verifier services.BotVerifier, notifier services.Notifier, ledger services.Ledger) *ContactHandler {
	return &ContactHandler{
		cfg:      cfg,
		verifier: verifier,
		notifier: notifier,
		ledger:   ledger,
	}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c echo.Context) error {
	// Per-submission id for operator-facing logs only; it never reaches the
	// submitter or the ledger
	submissionID := uuid.New().String()

	var lead models.LeadSubmission
	if err := c.Bind(&lead); err != nil {
		return c.JSON(http.StatusBadRequest, ContactResponse{
			OK:      false,
			Message: "Datos inválidos",
		})
	}

	lead.Normalize()
	if issues := lead.Validate(); len(issues) > 0 {
		return c.JSON(http.StatusBadRequest, ContactResponse{
			OK:      false,
			Message: "Datos inválidos",
			Issues:  issues,
		})
	}

	// Honeypot: accept silently with no side effects so automated submitters
	// get no signal they were filtered
	if lead.IsHoneypotTriggered() {
		c.Logger().Infof("Honeypot triggered for submission %s", submissionID)
		return c.JSON(http.StatusOK, ContactResponse{OK: true})
	}

	verdict := h.verifier.Verify(lead.RecaptchaToken, c.RealIP())
	if !verdict.OK {
		c.Logger().Warnf("reCAPTCHA rejected submission %s: reason=%s", submissionID, verdict.Reason)
		message := "Verificación reCAPTCHA falló."
		if verdict.Reason == services.RecaptchaReasonLowScore {
			message = "Verificación reCAPTCHA falló (score bajo)."
		}
		return c.JSON(http.StatusBadRequest, ContactResponse{
			OK:      false,
			Message: message,
		})
	}

	// Fail fast on missing email configuration, before any side effect
	if h.cfg.ResendAPIKey == "" && !h.cfg.EmailTestMode {
		return c.JSON(http.StatusInternalServerError, ContactResponse{
			OK:      false,
			Message: "RESEND_API_KEY no configurada",
		})
	}
	if h.cfg.ContactTo == "" {
		return c.JSON(http.StatusInternalServerError, ContactResponse{
			OK:      false,
			Message: "CONTACT_TO no configurado",
		})
	}

	email := services.BuildLeadNotificationEmail(h.cfg, &lead)
	if err := h.notifier.Send(email); err != nil {
		c.Logger().Errorf("Failed to send lead notification for submission %s: %v", submissionID, err)
		return c.JSON(http.StatusInternalServerError, ContactResponse{
			OK:      false,
			Message: err.Error(),
		})
	}

	// Ledger append is best-effort: the notification already went out, so a
	// logging failure must not look like a lost lead to the submitter
	saved := true
	entry := services.LedgerEntry{
		Name:      lead.Nombre,
		Company:   lead.Empresa,
		Email:     lead.Email,
		Phone:     lead.Telefono,
		Details:   lead.Detalle,
		Source:    services.LedgerSourceTag,
		UserAgent: c.Request().UserAgent(),
	}
	if err := h.ledger.Append(c.Request().Context(), entry); err != nil {
		c.Logger().Errorf("Failed to append submission %s to ledger: %v", submissionID, err)
		saved = false
	}

	return c.JSON(http.StatusOK, ContactResponse{
		OK:      true,
		Saved:   &saved,
		Message: "¡Gracias! Hemos recibido tu solicitud.",
	})
}
