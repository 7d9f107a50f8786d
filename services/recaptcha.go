package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"printera_landing_go/config"
)

// recaptchaVerifyURL is a variable so tests can point it at a local server
var recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verdict reasons returned by VerifyRecaptcha
const (
	RecaptchaReasonNoSecret = "no-secret"
	RecaptchaReasonNoToken  = "no-token"
	RecaptchaReasonOK       = "ok"
	RecaptchaReasonLowScore = "low-score"
	RecaptchaReasonError    = "error"
)

// RecaptchaAPIResponse is the siteverify payload returned by Google
type RecaptchaAPIResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// RecaptchaVerdict is the outcome of a bot-likelihood check
type RecaptchaVerdict struct {
	OK     bool
	Score  *float64
	Reason string
}

// BotVerifier checks whether a submission is likely human
type BotVerifier interface {
	Verify(token, remoteIP string) RecaptchaVerdict
}

// RecaptchaVerifier verifies tokens against Google reCAPTCHA v3
type RecaptchaVerifier struct {
	Secret   string
	MinScore float64
}

// NewRecaptchaVerifier builds a verifier from the loaded configuration
func NewRecaptchaVerifier(cfg *config.Config) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		Secret:   cfg.RecaptchaSecret,
		MinScore: cfg.RecaptchaMinScore,
	}
}

// Verify applies the bot-check policy:
//   - no secret configured: the feature is disabled and every submission passes
//   - secret configured but no token supplied: rejected
//   - otherwise the token is verified with Google; accepted only when the
//     provider reports success and the score (when present) meets MinScore
//
// Transport or decode failures are reported as a rejection, never as success.
func (v *RecaptchaVerifier) Verify(token, remoteIP string) RecaptchaVerdict {
	if v.Secret == "" {
		return RecaptchaVerdict{OK: true, Reason: RecaptchaReasonNoSecret}
	}
	if token == "" {
		return RecaptchaVerdict{OK: false, Reason: RecaptchaReasonNoToken}
	}

	result, err := postSiteverify(v.Secret, token, remoteIP)
	if err != nil {
		return RecaptchaVerdict{OK: false, Reason: RecaptchaReasonError}
	}

	if result.Success && result.Score != nil && *result.Score < v.MinScore {
		return RecaptchaVerdict{OK: false, Score: result.Score, Reason: RecaptchaReasonLowScore}
	}
	if !result.Success {
		return RecaptchaVerdict{OK: false, Score: result.Score, Reason: RecaptchaReasonError}
	}
	return RecaptchaVerdict{OK: true, Score: result.Score, Reason: RecaptchaReasonOK}
}

func postSiteverify(secret, token, remoteIP string) (*RecaptchaAPIResponse, error) {
	resp, err := http.PostForm(recaptchaVerifyURL, url.Values{
		"secret":   {secret},
		"response": {token},
		"remoteip": {remoteIP},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	var result RecaptchaAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode recaptcha response: %w", err)
	}
	return &result, nil
}
