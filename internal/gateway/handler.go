// Package gateway is the SMS notification deployable: it looks up the
// default template for an event type, renders it with coupon fields,
// and forwards the text to the Solapi send API.
package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coupon-manager/internal/domain/template"
	"coupon-manager/internal/usecase/queries"
)

// SendRequest mirrors what the API's notification client posts.
type SendRequest struct {
	Type           string `json:"type"`
	Phone          string `json:"phone"`
	CouponCode     string `json:"couponCode"`
	DiscountLabel  string `json:"discountLabel"`
	HeadcountLabel string `json:"headcountLabel"`
	IssuedBranch   string `json:"issuedBranch"`
	VerifiedBranch string `json:"verifiedBranch"`
	VerifiedAt     string `json:"verifiedAt"`
}

type SendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	templates queries.TemplateQueries
	sender    *Sender
}

func NewHandler(templates queries.TemplateQueries, sender *Sender) *Handler {
	return &Handler{
		templates: templates,
		sender:    sender,
	}
}

// Send handles POST /send.
//
// Status codes are deliberate and distinct: 400 for bad input or a
// missing default template, 503 when the gateway itself is not
// configured, 502 when the provider rejected the message.
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SendResponse{Error: "invalid request body"})
		return
	}
	if req.Type == "" {
		req.Type = template.TypeIssue.String()
	}
	if req.Phone == "" || req.CouponCode == "" {
		c.JSON(http.StatusBadRequest, SendResponse{Error: "phone and couponCode are required"})
		return
	}

	kind, err := template.NewType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, SendResponse{Error: "unknown template type"})
		return
	}

	view, err := h.templates.GetDefault(c.Request.Context(), kind)
	if err != nil {
		if errors.Is(err, queries.ErrNoDefaultTemplate) {
			c.JSON(http.StatusBadRequest, SendResponse{Error: "no default template for type"})
			return
		}
		c.JSON(http.StatusInternalServerError, SendResponse{Error: "template lookup failed"})
		return
	}

	to := ToKoreanPhone(req.Phone)
	text := template.Render(view.Content, map[string]string{
		"couponCode":     req.CouponCode,
		"discountLabel":  req.DiscountLabel,
		"headcountLabel": req.HeadcountLabel,
		"issuedBranch":   req.IssuedBranch,
		"customerPhone":  to,
		"verifiedBranch": req.VerifiedBranch,
		"verifiedAt":     req.VerifiedAt,
	})

	if err := h.sender.Send(c.Request.Context(), to, text); err != nil {
		var upstream *UpstreamError
		switch {
		case errors.Is(err, ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, SendResponse{Error: "sms credentials not configured"})
		case errors.As(err, &upstream):
			c.JSON(http.StatusBadGateway, SendResponse{Error: upstream.Message})
		default:
			c.JSON(http.StatusInternalServerError, SendResponse{Error: "send failed"})
		}
		return
	}

	c.JSON(http.StatusOK, SendResponse{Success: true})
}

// NewRouter wires the gateway's tiny surface.
func NewRouter(engine *gin.Engine, handler *Handler) {
	engine.POST("/send", handler.Send)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
