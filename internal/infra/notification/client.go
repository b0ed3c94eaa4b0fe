// Package notification is the API-side client for the SMS gateway
// deployable. Delivery is strictly best-effort: a coupon transition
// must never fail or roll back because a text message did not go out.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coupon-manager/internal/pkg/config"
	"coupon-manager/internal/usecase/queries"
)

type sendRequest struct {
	Type           string  `json:"type"`
	Phone          string  `json:"phone"`
	CouponCode     string  `json:"couponCode"`
	DiscountLabel  string  `json:"discountLabel"`
	HeadcountLabel string  `json:"headcountLabel"`
	IssuedBranch   string  `json:"issuedBranch"`
	VerifiedBranch *string `json:"verifiedBranch,omitempty"`
	VerifiedAt     *string `json:"verifiedAt,omitempty"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg config.NotifyConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.GatewayURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) CouponIssued(ctx context.Context, view *queries.CouponView) {
	c.send(ctx, "issue", view)
}

func (c *Client) CouponVerified(ctx context.Context, view *queries.CouponView) {
	c.send(ctx, "verify", view)
}

func (c *Client) send(ctx context.Context, kind string, view *queries.CouponView) {
	if c.baseURL == "" {
		return
	}

	payload := sendRequest{
		Type:           kind,
		Phone:          view.CustomerPhone,
		CouponCode:     view.Code,
		DiscountLabel:  view.DiscountLabel,
		HeadcountLabel: view.HeadcountLabel,
		IssuedBranch:   view.IssuedBranchCode,
		VerifiedBranch: view.VerifiedBranchCode,
	}
	if view.VerifiedAt != nil {
		at := view.VerifiedAt.Format(time.RFC3339)
		payload.VerifiedAt = &at
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to encode sms request", "coupon_code", view.Code, "error", err.Error())
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		slog.Warn("failed to build sms request", "coupon_code", view.Code, "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("sms gateway unreachable", "coupon_code", view.Code, "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("sms gateway rejected request",
			"coupon_code", view.Code,
			"type", kind,
			"status", resp.StatusCode,
			"body", string(msg),
		)
	}
}
