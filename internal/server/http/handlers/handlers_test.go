package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
	"github.com/paperontime/orderdesk/internal/domain/model"
	"github.com/paperontime/orderdesk/internal/server/http/dto"
	testhelpers "github.com/paperontime/orderdesk/internal/test"
	"github.com/paperontime/orderdesk/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error
}

func TestOrderHandlerCreate(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(ctx context.Context, order *model.Order) (*model.Order, error) {
		if order.Email != "customer@example.test" || order.WordCount != 500 {
			t.Fatalf("unexpected order %+v", order)
		}
		order.OrderNumber = "ORD-A1B2C3D4"
		order.Status = model.OrderStatusPending
		return order, nil
	}})

	body, _ := json.Marshal(dto.CreateOrderRequest{
		Email:     "customer@example.test",
		Service:   "Drafting",
		WordCount: 500,
		Currency:  "USD",
	})
	resp := performRequest(t, http.MethodPost, "/api/orders", handler.Create, body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var order dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if order.OrderNumber != "ORD-A1B2C3D4" || order.Status != "Pending" {
		t.Fatalf("unexpected response %+v", order)
	}
}

func TestOrderHandlerCreateRequiresEmail(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	body, _ := json.Marshal(dto.CreateOrderRequest{Service: "Drafting"})
	resp := performRequest(t, http.MethodPost, "/api/orders", handler.Create, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCreateDuplicate(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(context.Context, *model.Order) (*model.Order, error) {
		return nil, domainErrors.ErrAlreadyExists
	}})
	body, _ := json.Marshal(dto.CreateOrderRequest{Email: "a@b.test"})
	resp := performRequest(t, http.MethodPost, "/api/orders", handler.Create, body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestOrderHandlerLookupRequiresBothParams(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/api/orders/lookup", handler.Lookup, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if got := decodeError(t, resp); got != "Please enter both email and order number." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestOrderHandlerLookupNotFoundIsNeutral(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{FindFn: func(context.Context, string, string) (*model.Order, error) {
		return nil, nil
	}})
	router := gin.New()
	router.GET("/api/orders/lookup", handler.Lookup)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/lookup?email=a@b.test&orderNumber=ORD-A1B2C3D4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if got := decodeError(t, w); got != "Order not found." {
		t.Fatalf("wrong-email and wrong-number must read identically, got %q", got)
	}
}

func TestOrderHandlerLookupSuccess(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{FindFn: func(ctx context.Context, email, number string) (*model.Order, error) {
		return &model.Order{Email: email, OrderNumber: number, EssayTopic: "Topic"}, nil
	}})
	router := gin.New()
	router.GET("/api/orders/lookup", handler.Lookup)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/lookup?email=a@b.test&orderNumber=ORD-A1B2C3D4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var order dto.OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if order.EssayTopic != "Topic" {
		t.Fatalf("unexpected response %+v", order)
	}
}

func TestOrderHandlerBySessionNotFound(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{BySessionFn: func(context.Context, string) (*model.Order, error) {
		return nil, nil
	}})
	router := gin.New()
	router.GET("/api/orders/by-session/:sessionID", handler.BySession)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/by-session/cs_test_1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestOrderHandlerUpdateLocked(t *testing.T) {
	updateCalled := false
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{
		FindFn: func(ctx context.Context, email, number string) (*model.Order, error) {
			paidAt := time.Now().Add(-4 * time.Hour)
			return &model.Order{Email: email, OrderNumber: number, Status: model.OrderStatusSuccessful, PaidAt: &paidAt}, nil
		},
		LockedFn: func(order *model.Order, now time.Time) bool { return true },
		UpdateFn: func(context.Context, string, string, usecase.UpdateFields) (*model.Order, error) {
			updateCalled = true
			return nil, nil
		},
	})

	topic := "New topic"
	body, _ := json.Marshal(dto.UpdateOrderRequest{
		Email:       "a@b.test",
		OrderNumber: "ORD-A1B2C3D4",
		Fields:      dto.OrderFields{EssayTopic: &topic},
	})
	resp := performRequest(t, http.MethodPatch, "/api/orders", handler.Update, body)
	if resp.Code != http.StatusLocked {
		t.Fatalf("expected status 423, got %d", resp.Code)
	}
	if got := decodeError(t, resp); got != "In production - No changes can be made." {
		t.Fatalf("unexpected message %q", got)
	}
	if updateCalled {
		t.Fatal("update must not run on a locked order")
	}
}

func TestOrderHandlerUpdatePassesFields(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{
		UpdateFn: func(ctx context.Context, email, number string, fields usecase.UpdateFields) (*model.Order, error) {
			if fields.EssayTopic == nil || *fields.EssayTopic != "New topic" {
				t.Fatalf("expected essay topic to be forwarded, got %+v", fields)
			}
			if fields.Instructions != nil {
				t.Fatal("absent fields must stay nil")
			}
			return &model.Order{Email: email, OrderNumber: number, EssayTopic: *fields.EssayTopic}, nil
		},
	})

	topic := "New topic"
	body, _ := json.Marshal(dto.UpdateOrderRequest{
		Email:       "a@b.test",
		OrderNumber: "ORD-A1B2C3D4",
		Fields:      dto.OrderFields{EssayTopic: &topic},
	})
	resp := performRequest(t, http.MethodPatch, "/api/orders", handler.Update, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestCheckoutHandlerRates(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{RatesFn: func(context.Context) (model.RateTable, error) {
		return model.RateTable{"GBP": 1, "USD": 1.27}, nil
	}})
	resp := performRequest(t, http.MethodGet, "/api/rates", handler.Rates, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var table map[string]float64
	if err := json.Unmarshal(resp.Body.Bytes(), &table); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if table["USD"] != 1.27 {
		t.Fatalf("unexpected table %v", table)
	}
}

func TestCheckoutHandlerRatesUpstreamFailure(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{RatesFn: func(context.Context) (model.RateTable, error) {
		return nil, domainErrors.ErrRateUpstream
	}})
	resp := performRequest(t, http.MethodGet, "/api/rates", handler.Rates, nil)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}
	if got := decodeError(t, resp); got != "Something went wrong. Please try again later." {
		t.Fatalf("upstream detail must not leak, got %q", got)
	}
}

func TestCheckoutHandlerQuote(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{QuoteFn: func(ctx context.Context, in usecase.CheckoutInput) (float64, error) {
		if in.WordCount != "500" || in.Currency != "USD" {
			t.Fatalf("unexpected input %+v", in)
		}
		return 57.79, nil
	}})

	body, _ := json.Marshal(dto.QuoteRequest{
		Service:          "Drafting",
		AcademicLevel:    "Undergraduate",
		Deadline:         "10 days",
		WordCount:        "500",
		PaperType:        "Essay (give type later)",
		DiscountFraction: "0",
		Currency:         "USD",
	})
	resp := performRequest(t, http.MethodPost, "/api/quote", handler.Quote, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var quote dto.QuoteResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &quote); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if quote.Amount != 57.79 || quote.Currency != "USD" {
		t.Fatalf("unexpected quote %+v", quote)
	}
}

func TestCheckoutHandlerQuoteInvalidInput(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{QuoteFn: func(context.Context, usecase.CheckoutInput) (float64, error) {
		return 0, domainErrors.InvalidInputError{Field: "paperType", Value: "Novel"}
	}})
	body, _ := json.Marshal(dto.QuoteRequest{PaperType: "Novel"})
	resp := performRequest(t, http.MethodPost, "/api/quote", handler.Quote, body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestCheckoutHandlerCreateSession(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{SessionFn: func(ctx context.Context, in usecase.CheckoutInput) (string, error) {
		if in.OrderID != "rec-1" || in.OrderNumber != "ORD-A1B2C3D4" {
			t.Fatalf("unexpected input %+v", in)
		}
		return "https://checkout.test/session", nil
	}})

	body, _ := json.Marshal(dto.CheckoutRequest{
		OrderRecordID: "rec-1",
		OrderNumber:   "ORD-A1B2C3D4",
		Service:       "Drafting",
		WordCount:     "500",
		Currency:      "USD",
	})
	resp := performRequest(t, http.MethodPost, "/api/checkout", handler.CreateSession, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var session dto.CheckoutResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if session.SessionURL != "https://checkout.test/session" {
		t.Fatalf("unexpected session url %q", session.SessionURL)
	}
}

func TestCheckoutHandlerCreateSessionValidation(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{SessionFn: func(context.Context, usecase.CheckoutInput) (string, error) {
		return "", domainErrors.ValidationError{Missing: []string{"service", "currency"}}
	}})
	body, _ := json.Marshal(dto.CheckoutRequest{OrderRecordID: "rec-1"})
	resp := performRequest(t, http.MethodPost, "/api/checkout", handler.CreateSession, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if got := decodeError(t, resp); got != "validation error - missing: [service, currency]" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCheckoutHandlerCreateSessionGatewayError(t *testing.T) {
	handler := NewCheckoutHandler(testhelpers.CheckoutFacadeStub{SessionFn: func(context.Context, usecase.CheckoutInput) (string, error) {
		return "", domainErrors.GatewayError{Message: "expired key"}
	}})
	body, _ := json.Marshal(dto.CheckoutRequest{OrderRecordID: "rec-1"})
	resp := performRequest(t, http.MethodPost, "/api/checkout", handler.CreateSession, body)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}
	if got := decodeError(t, resp); got == "expired key" {
		t.Fatal("provider detail must not leak to the client")
	}
}

func TestPaymentHandlerConfirm(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{ConfirmFn: func(ctx context.Context, sessionID, orderNumber string) (*usecase.ReconcileResult, error) {
		if sessionID != "cs_test_1" || orderNumber != "ORD-A1B2C3D4" {
			t.Fatalf("unexpected args %q %q", sessionID, orderNumber)
		}
		order := &model.Order{OrderNumber: orderNumber, Status: model.OrderStatusSuccessful}
		return &usecase.ReconcileResult{Order: order, Notified: true}, nil
	}})

	body, _ := json.Marshal(dto.ConfirmRequest{SessionID: "cs_test_1", OrderNumber: "ORD-A1B2C3D4"})
	resp := performRequest(t, http.MethodPost, "/api/payment/confirm", handler.Confirm, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var confirm dto.ConfirmResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &confirm); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if confirm.Status != "Successful" || !confirm.Notified {
		t.Fatalf("unexpected response %+v", confirm)
	}
}

func TestPaymentHandlerConfirmRequiresBothFields(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{})
	body, _ := json.Marshal(dto.ConfirmRequest{SessionID: "cs_test_1"})
	resp := performRequest(t, http.MethodPost, "/api/payment/confirm", handler.Confirm, body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestPaymentHandlerConfirmCarriesWarnings(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{ConfirmFn: func(ctx context.Context, sessionID, orderNumber string) (*usecase.ReconcileResult, error) {
		order := &model.Order{OrderNumber: orderNumber, Status: model.OrderStatusSuccessful}
		return &usecase.ReconcileResult{Order: order, Warnings: []string{"contact upsert: crm down"}}, nil
	}})

	body, _ := json.Marshal(dto.ConfirmRequest{SessionID: "cs_test_1", OrderNumber: "ORD-A1B2C3D4"})
	resp := performRequest(t, http.MethodPost, "/api/payment/confirm", handler.Confirm, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("advisory failures must not change the status, got %d", resp.Code)
	}
	var confirm dto.ConfirmResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &confirm); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if confirm.Notified || len(confirm.Warnings) != 1 {
		t.Fatalf("unexpected response %+v", confirm)
	}
}

func TestPaymentHandlerConfirmUnknownOrder(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{ConfirmFn: func(context.Context, string, string) (*usecase.ReconcileResult, error) {
		return nil, domainErrors.ErrOrderNotFound
	}})
	body, _ := json.Marshal(dto.ConfirmRequest{SessionID: "cs_test_1", OrderNumber: "ORD-MISSING1"})
	resp := performRequest(t, http.MethodPost, "/api/payment/confirm", handler.Confirm, body)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestWriteDomainErrorDefault(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	writeDomainError(ctx, errors.New("pq: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	var body dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error != "Something went wrong. Please try again later." {
		t.Fatalf("internal detail must not leak, got %q", body.Error)
	}
}
