package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paperontime/orderdesk/internal/server/http/dto"
)

// PaymentHandler manages the payment provider return endpoint.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Confirm handles POST /api/payment/confirm, invoked when the provider
// redirects back indicating success.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.SessionID == "" || req.OrderNumber == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "sessionId and orderNumber are required"})
		return
	}

	result, err := h.facade.ConfirmPayment(c.Request.Context(), req.SessionID, req.OrderNumber)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConfirmResponse{
		OrderNumber: result.Order.OrderNumber,
		Status:      string(result.Order.Status),
		Notified:    result.Notified,
		Warnings:    result.Warnings,
	})
}
