package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/checkout"
)

func TestConfirmSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/confirmations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reference":"pay-42"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	conf, err := client.Confirm(context.Background(), checkout.PaymentIntent{Amount: decimal.NewFromInt(25)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conf.Confirmed || conf.Reference != "pay-42" {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
}

func TestConfirmDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message":"insufficient funds"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	conf, err := client.Confirm(context.Background(), checkout.PaymentIntent{Amount: decimal.NewFromInt(25)})
	if err != nil {
		t.Fatalf("a decline is not a transport error, got %v", err)
	}
	if conf.Confirmed {
		t.Fatal("decline reported as confirmed")
	}
	if conf.Message != "insufficient funds" {
		t.Fatalf("gateway message lost: %q", conf.Message)
	}
}

func TestConfirmMissingReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Confirm(context.Background(), checkout.PaymentIntent{}); err == nil {
		t.Fatal("a confirmation without a reference must be rejected")
	}
}

func TestConfirmServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Confirm(context.Background(), checkout.PaymentIntent{}); err == nil {
		t.Fatal("expected error on 502")
	}
}
