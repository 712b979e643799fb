package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/server/http/dto"
	"github.com/paperontime/orderdesk/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email is required"})
		return
	}

	docs := make([]model.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, model.Document{Filename: d.Filename, FileURL: d.FileURL})
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), &model.Order{
		OrderNumber:      req.OrderNumber,
		Email:            req.Email,
		Service:          req.Service,
		AcademicLevel:    req.AcademicLevel,
		Deadline:         req.Deadline,
		WordCount:        req.WordCount,
		PaperType:        req.PaperType,
		DiscountFraction: req.DiscountFraction,
		Currency:         req.Currency,
		EssayTopic:       req.EssayTopic,
		Instructions:     req.Instructions,
		ReferencingStyle: req.ReferencingStyle,
		Sources:          req.Sources,
		SubjectArea:      req.SubjectArea,
		Subject:          req.Subject,
		Documents:        docs,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// Lookup handles GET /api/orders/lookup?email=&orderNumber=.
func (h *OrderHandler) Lookup(c *gin.Context) {
	email := c.Query("email")
	orderNumber := c.Query("orderNumber")
	if email == "" || orderNumber == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Please enter both email and order number."})
		return
	}

	order, err := h.facade.FindOrder(c.Request.Context(), email, orderNumber)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found."})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// BySession handles GET /api/orders/by-session/:sessionID.
func (h *OrderHandler) BySession(c *gin.Context) {
	order, err := h.facade.FindOrderBySession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found."})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// Update handles PATCH /api/orders. The production lock is enforced here:
// once an order has been paid for longer than the lock window its content
// can no longer change.
func (h *OrderHandler) Update(c *gin.Context) {
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.OrderNumber == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Please enter both email and order number."})
		return
	}

	current, err := h.facade.FindOrder(c.Request.Context(), req.Email, req.OrderNumber)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found."})
		return
	}
	if h.facade.OrderLocked(current, time.Now()) {
		c.JSON(http.StatusLocked, dto.ErrorResponse{Error: "In production - No changes can be made."})
		return
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), req.Email, req.OrderNumber, toUpdateFields(req.Fields))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func toUpdateFields(fields dto.OrderFields) usecase.UpdateFields {
	out := usecase.UpdateFields{
		EssayTopic:       fields.EssayTopic,
		Instructions:     fields.Instructions,
		ReferencingStyle: fields.ReferencingStyle,
		Sources:          fields.Sources,
		SubjectArea:      fields.SubjectArea,
		Subject:          fields.Subject,
		PaperType:        fields.PaperType,
		Email:            fields.Email,
	}
	if fields.Documents != nil {
		docs := make([]model.Document, 0, len(*fields.Documents))
		for _, d := range *fields.Documents {
			docs = append(docs, model.Document{Filename: d.Filename, FileURL: d.FileURL})
		}
		out.Documents = &docs
	}
	return out
}
