package dto

// QuoteRequest describes pricing inputs for a display quote. Numeric fields
// arrive as the raw form strings and are validated by the price engine.
type QuoteRequest struct {
	Service          string `json:"service"`
	AcademicLevel    string `json:"academicLevel"`
	Deadline         string `json:"deadline"`
	WordCount        string `json:"wordCount"`
	PaperType        string `json:"paperType"`
	DiscountFraction string `json:"appliedDiscountFraction"`
	Currency         string `json:"currency"`
}

// QuoteResponse carries the computed display price.
type QuoteResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CheckoutRequest describes a payment session request for an existing order.
type CheckoutRequest struct {
	OrderRecordID    string `json:"orderRecordId"`
	OrderNumber      string `json:"orderNumber"`
	Service          string `json:"service"`
	AcademicLevel    string `json:"academicLevel"`
	Deadline         string `json:"deadline"`
	WordCount        string `json:"wordCount"`
	DiscountFraction string `json:"appliedDiscountFraction"`
	PaperType        string `json:"paperType"`
	Currency         string `json:"currency"`
}

// CheckoutResponse carries the provider-hosted redirect URL.
type CheckoutResponse struct {
	SessionURL string `json:"sessionUrl"`
}

// ConfirmRequest describes the payment provider redirect payload.
type ConfirmRequest struct {
	SessionID   string `json:"sessionId"`
	OrderNumber string `json:"orderNumber"`
}

// ConfirmResponse reports reconciliation outcome. Warnings list advisory
// sub-steps that failed without affecting the paid status.
type ConfirmResponse struct {
	OrderNumber string   `json:"orderNumber"`
	Status      string   `json:"status"`
	Notified    bool     `json:"notified"`
	Warnings    []string `json:"warnings,omitempty"`
}
