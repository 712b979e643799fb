package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paperontime/orderdesk/internal/server/http/dto"
	"github.com/paperontime/orderdesk/internal/usecase"
)

// CheckoutHandler manages pricing and payment session endpoints.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Rates handles GET /api/rates.
func (h *CheckoutHandler) Rates(c *gin.Context) {
	rates, err := h.facade.Rates(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// Quote handles POST /api/quote.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	amount, err := h.facade.Quote(c.Request.Context(), usecase.CheckoutInput{
		Service:          req.Service,
		AcademicLevel:    req.AcademicLevel,
		Deadline:         req.Deadline,
		WordCount:        req.WordCount,
		DiscountFraction: req.DiscountFraction,
		PaperType:        req.PaperType,
		Currency:         req.Currency,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{Amount: amount, Currency: req.Currency})
}

// CreateSession handles POST /api/checkout.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	sessionURL, err := h.facade.CreateCheckoutSession(c.Request.Context(), usecase.CheckoutInput{
		OrderID:          req.OrderRecordID,
		OrderNumber:      req.OrderNumber,
		Service:          req.Service,
		AcademicLevel:    req.AcademicLevel,
		Deadline:         req.Deadline,
		WordCount:        req.WordCount,
		DiscountFraction: req.DiscountFraction,
		PaperType:        req.PaperType,
		Currency:         req.Currency,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{SessionURL: sessionURL})
}
