package dto

import (
	"time"

	"github.com/paperontime/orderdesk/internal/domain/model"
)

// DocumentPayload describes one uploaded attachment reference.
type DocumentPayload struct {
	Filename string `json:"filename"`
	FileURL  string `json:"fileUrl"`
}

// CreateOrderRequest describes the order draft submitted by the wizard.
// An empty orderNumber is filled in server-side.
type CreateOrderRequest struct {
	OrderNumber      string            `json:"orderNumber"`
	Email            string            `json:"email"`
	Service          string            `json:"service"`
	AcademicLevel    string            `json:"academicLevel"`
	Deadline         string            `json:"deadline"`
	WordCount        int               `json:"wordCount"`
	PaperType        string            `json:"paperType"`
	DiscountFraction float64           `json:"appliedDiscountFraction"`
	Currency         string            `json:"currency"`
	EssayTopic       string            `json:"essayTopic"`
	Instructions     string            `json:"instructions"`
	ReferencingStyle string            `json:"referencingStyle"`
	Sources          string            `json:"sources"`
	SubjectArea      string            `json:"subjectArea"`
	Subject          string            `json:"subject"`
	Documents        []DocumentPayload `json:"documents"`
}

// OrderFields carries the customer-editable fields of an update. Absent
// fields are left unchanged.
type OrderFields struct {
	EssayTopic       *string            `json:"essayTopic"`
	Instructions     *string            `json:"instructions"`
	ReferencingStyle *string            `json:"referencingStyle"`
	Sources          *string            `json:"sources"`
	SubjectArea      *string            `json:"subjectArea"`
	Subject          *string            `json:"subject"`
	PaperType        *string            `json:"paperType"`
	Email            *string            `json:"email"`
	Documents        *[]DocumentPayload `json:"documents"`
}

// UpdateOrderRequest describes a partial edit of an existing order.
type UpdateOrderRequest struct {
	Email       string      `json:"email"`
	OrderNumber string      `json:"orderNumber"`
	Fields      OrderFields `json:"fields"`
}

// OrderResponse is the order record shape crossing the HTTP boundary.
type OrderResponse struct {
	ID               string            `json:"id"`
	OrderNumber      string            `json:"orderNumber"`
	Email            string            `json:"email"`
	Service          string            `json:"service"`
	AcademicLevel    string            `json:"academicLevel"`
	Deadline         string            `json:"deadline"`
	WordCount        int               `json:"wordCount"`
	PaperType        string            `json:"paperType"`
	DiscountFraction float64           `json:"appliedDiscountFraction"`
	Currency         string            `json:"currency"`
	PaymentAmount    float64           `json:"paymentAmount"`
	EssayTopic       string            `json:"essayTopic"`
	Instructions     string            `json:"instructions"`
	ReferencingStyle string            `json:"referencingStyle"`
	Sources          string            `json:"sources"`
	SubjectArea      string            `json:"subjectArea"`
	Subject          string            `json:"subject"`
	Documents        []DocumentPayload `json:"documents"`
	Status           string            `json:"status"`
	PaidAt           *time.Time        `json:"paidAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// ErrorResponse carries a user-visible error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToOrderResponse converts a domain order for the wire.
func ToOrderResponse(order *model.Order) OrderResponse {
	docs := make([]DocumentPayload, 0, len(order.Documents))
	for _, d := range order.Documents {
		docs = append(docs, DocumentPayload{Filename: d.Filename, FileURL: d.FileURL})
	}
	return OrderResponse{
		ID:               order.ID.String(),
		OrderNumber:      order.OrderNumber,
		Email:            order.Email,
		Service:          order.Service,
		AcademicLevel:    order.AcademicLevel,
		Deadline:         order.Deadline,
		WordCount:        order.WordCount,
		PaperType:        order.PaperType,
		DiscountFraction: order.DiscountFraction,
		Currency:         order.Currency,
		PaymentAmount:    order.PaymentAmount,
		EssayTopic:       order.EssayTopic,
		Instructions:     order.Instructions,
		ReferencingStyle: order.ReferencingStyle,
		Sources:          order.Sources,
		SubjectArea:      order.SubjectArea,
		Subject:          order.Subject,
		Documents:        docs,
		Status:           string(order.Status),
		PaidAt:           order.PaidAt,
		CreatedAt:        order.CreatedAt,
	}
}
