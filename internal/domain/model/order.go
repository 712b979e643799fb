package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes payment lifecycle. Transitions are one-way:
// Pending -> Successful.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusSuccessful OrderStatus = "Successful"
)

// Document is a customer-uploaded attachment referenced from an order.
type Document struct {
	Filename string `json:"filename"`
	FileURL  string `json:"fileUrl"`
}

// Order describes a single customer work request together with its pricing,
// payment, and fulfillment state.
type Order struct {
	ID          uuid.UUID
	OrderNumber string
	Email       string

	Service          string
	AcademicLevel    string
	Deadline         string
	WordCount        int
	PaperType        string
	DiscountFraction float64
	Currency         string
	PaymentAmount    float64

	EssayTopic       string
	Instructions     string
	ReferencingStyle string
	Sources          string
	SubjectArea      string
	Subject          string
	Documents        []Document

	Status OrderStatus

	SessionID  *string
	PaidAt     *time.Time
	NotifiedAt *time.Time
	// DispatchedAt is the moment a notification sweep claimed the order.
	// Claimed orders are skipped by later sweeps until the claim goes stale.
	DispatchedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Paid reports whether the order has completed payment.
func (o *Order) Paid() bool {
	return o.Status == OrderStatusSuccessful
}

// InProduction reports whether the order content is locked for edits:
// payment succeeded longer than lockWindow ago.
func (o *Order) InProduction(now time.Time, lockWindow time.Duration) bool {
	if o.Status != OrderStatusSuccessful || o.PaidAt == nil {
		return false
	}
	return now.Sub(*o.PaidAt) > lockWindow
}
