package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"coupon-manager/internal/pkg/clock"
	"coupon-manager/internal/pkg/errs"
)

var (
	ErrNotConfigured = errs.New("solapi credentials not configured")
	ErrSaltSource    = errs.New("salt source failed")
)

// UpstreamError is a rejection from the Solapi send API; the message is
// what the provider returned.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("solapi rejected send (status %d): %s", e.Status, e.Message)
}

type solapiMessage struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

type solapiSendRequest struct {
	Messages []solapiMessage `json:"messages"`
}

type solapiErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// AuthHeader builds the per-request Solapi HMAC credential: the
// signature is HMAC-SHA256 over the concatenated ISO-8601 date and a
// 16-byte random hex salt, keyed with the API secret.
func AuthHeader(apiKey, apiSecret string, at time.Time) (string, error) {
	date := at.UTC().Format(time.RFC3339)

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrSaltSource
	}
	saltHex := hex.EncodeToString(salt)

	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(date + saltHex))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s",
		apiKey, date, saltHex, signature), nil
}

// Sender forwards rendered messages to the Solapi send API.
type Sender struct {
	cfg    SolapiConfig
	client *http.Client
	clock  clock.Clock
}

func NewSender(cfg SolapiConfig, clock clock.Clock) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		clock:  clock,
	}
}

func (s *Sender) Configured() bool {
	return s.cfg.Configured()
}

func (s *Sender) Send(ctx context.Context, to, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	auth, err := AuthHeader(s.cfg.APIKey, s.cfg.APISecret, s.clock.Now())
	if err != nil {
		return err
	}

	body, err := json.Marshal(solapiSendRequest{
		Messages: []solapiMessage{{
			To:   to,
			From: nonDigitRegex.ReplaceAllString(s.cfg.FromNumber, ""),
			Text: text,
		}},
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode solapi request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.SendURL, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "failed to build solapi request")
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "solapi request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var parsed solapiErrorResponse
		message := resp.Status
		if json.Unmarshal(raw, &parsed) == nil && parsed.ErrorMessage != "" {
			message = parsed.ErrorMessage
		}
		return &UpstreamError{Status: resp.StatusCode, Message: message}
	}
	return nil
}
