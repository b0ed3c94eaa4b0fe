package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "coupon-manager/internal/handler/dto/request"
	resdto "coupon-manager/internal/handler/dto/response"
	"coupon-manager/internal/handler/middleware"
	"coupon-manager/internal/usecase/commands"
	"coupon-manager/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Issue coupon
// @Description Issue a new single-use coupon for a customer
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.IssueCouponRequest true "Issue request"
// @Success 201 {object} queries.CouponView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /coupons [post]
func (h *CouponHandler) Issue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.IssueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.couponCommands.Issue(c.Request.Context(), actor, req)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Record coupon scan
// @Description Record a scanner read and resolve it to a coupon code
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ScanCouponRequest true "Scan payload"
// @Success 200 {object} resdto.ScanResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /coupons/scan [post]
func (h *CouponHandler) Scan(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ScanCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.couponCommands.RecordScan(c.Request.Context(), actor, req.Raw)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ScanResponse{
		Code:   result.Code,
		Coupon: result.Coupon,
	})
}

// @Summary Get coupon
// @Description Look up a coupon by its code
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} queries.CouponView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /coupons/{code} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	view, err := h.couponQueries.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, queries.ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Verify coupon
// @Description Redeem a coupon with the branch password
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Param request body reqdto.VerifyCouponRequest true "Verify request"
// @Success 200 {object} queries.CouponView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /coupons/{code}/verify [post]
func (h *CouponHandler) Verify(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.VerifyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.couponCommands.Verify(c.Request.Context(), actor, c.Param("code"), req)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List recent coupons
// @Description List coupons of every status, newest issuance first
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Filter by branch code (issued or verified)"
// @Param phone query string false "Filter by phone digits substring"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.CouponListResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	items, err := h.couponQueries.ListRecent(c.Request.Context(), queries.CouponListFilter{
		BranchCode:  c.Query("branch"),
		PhoneDigits: c.Query("phone"),
		Limit:       limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.CouponListResponse{Items: items})
}

func currentActor(c *gin.Context) (commands.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{ID: userID, Role: role.String()}, true
}

func respondCouponError(c *gin.Context, err error) {
	var locked *commands.LockedError

	switch {
	case errors.As(err, &locked):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":               "Too many failed attempts, try again later",
			"retry_after_seconds": locked.RemainingSeconds,
		})
	case errors.Is(err, commands.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
	case errors.Is(err, commands.ErrBranchUnknown):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown branch"})
	case errors.Is(err, commands.ErrBranchNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "Branch not allowed for this account"})
	case errors.Is(err, commands.ErrInvalidBranchPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid branch password"})
	case errors.Is(err, commands.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
	case errors.Is(err, commands.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon already processed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
