package stripe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/paperontime/orderdesk/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testParams() SessionParams {
	return SessionParams{
		Amount:      57.79,
		Currency:    "USD",
		ProductName: "Custom Drafting Service",
		Quantity:    1,
		SuccessURL:  "https://example.test/payment-success?session_id={CHECKOUT_SESSION_ID}&orderNumber=ORD-A1B2C3D4",
		CancelURL:   "https://example.test/order",
	}
}

func TestNewHTTPClientValidatesInputs(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "sk_test", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "sk_test", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient("https://api.stripe.test", "", testLogger()); err == nil {
		t.Fatal("expected error for empty secret key")
	}
}

func TestCreateCheckoutSessionRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("mode"); got != "payment" {
			t.Fatalf("unexpected mode %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][currency]"); got != "usd" {
			t.Fatalf("expected lowercase currency, got %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "5779" {
			t.Fatalf("expected minor units 5779, got %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][product_data][name]"); got != "Custom Drafting Service" {
			t.Fatalf("unexpected product name %q", got)
		}
		if got := r.PostForm.Get("line_items[0][quantity]"); got != "1" {
			t.Fatalf("unexpected quantity %q", got)
		}
		if got := r.PostForm.Get("success_url"); got != "https://example.test/payment-success?session_id={CHECKOUT_SESSION_ID}&orderNumber=ORD-A1B2C3D4" {
			t.Fatalf("unexpected success url %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.test/pay/cs_test_1"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "sk_test_123", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	sessionURL, err := client.CreateCheckoutSession(context.Background(), testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionURL != "https://checkout.stripe.test/pay/cs_test_1" {
		t.Fatalf("unexpected session url %q", sessionURL)
	}
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid currency: xyz"}}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "sk_test_123", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.CreateCheckoutSession(context.Background(), testParams())
	var gw domainErrors.GatewayError
	if !errors.As(err, &gw) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if gw.Message != "Invalid currency: xyz" {
		t.Fatalf("expected provider message to be carried, got %q", gw.Message)
	}
}

func TestCreateCheckoutSessionMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cs_test_1"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "sk_test_123", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.CreateCheckoutSession(context.Background(), testParams())
	var gw domainErrors.GatewayError
	if !errors.As(err, &gw) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if gw.Message != "no checkout URL returned" {
		t.Fatalf("unexpected message %q", gw.Message)
	}
}

func TestCreateCheckoutSessionTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewHTTPClient(server.URL, "sk_test_123", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.CreateCheckoutSession(context.Background(), testParams())
	var gw domainErrors.GatewayError
	if !errors.As(err, &gw) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{57.79, 5779},
		{45.5, 4550},
		{0.01, 1},
		{100, 10000},
	}
	for _, tc := range cases {
		if got := MinorUnits(tc.amount); got != tc.want {
			t.Fatalf("MinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
