package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/checkout"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/pricing"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/reward"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/session"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCatalog struct {
	items map[string]domain.Item
}

func (s *stubCatalog) GetItem(_ context.Context, id string) (domain.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return item, nil
}

type stubQuoter struct {
	quote domain.ShippingQuote
}

func (s *stubQuoter) Quote(context.Context, string, decimal.Decimal) (domain.ShippingQuote, error) {
	return s.quote, nil
}

type stubGateway struct {
	conf checkout.Confirmation
}

func (s *stubGateway) Confirm(context.Context, checkout.PaymentIntent) (checkout.Confirmation, error) {
	return s.conf, nil
}

type stubSubmitter struct {
	orderID string
	orders  []domain.Order
}

func (s *stubSubmitter) SubmitOrder(_ context.Context, order domain.Order) (string, error) {
	s.orders = append(s.orders, order)
	return s.orderID, nil
}

type stubOrders struct {
	orders map[string]*domain.Order
}

func (s *stubOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubSubmitter) {
	t.Helper()
	submitter := &stubSubmitter{orderID: "ord-1"}
	store := session.NewStore(
		pricing.NewEngine(decimal.NewFromInt(60)),
		reward.NewPolicy([]string{"donut"}),
		&stubQuoter{quote: domain.ShippingQuote{Cost: decimal.NewFromInt(5)}},
		&stubGateway{conf: checkout.Confirmation{Confirmed: true, Reference: "pay-1"}},
		submitter,
		logDiscard(),
	)
	catalog := &stubCatalog{items: map[string]domain.Item{
		"glazed": {ID: "glazed", Name: "Glazed Donut", Price: decimal.RequireFromString("9.50")},
		"filled": {
			ID: "filled", Name: "Filled Donut", Price: decimal.NewFromInt(12),
			Options: []domain.Option{
				{ID: "5", Name: "Jam", AdditionalPrice: decimal.NewFromInt(1)},
				{ID: "9", Name: "Cream", AdditionalPrice: decimal.NewFromInt(2)},
			},
		},
	}}

	orders := &stubOrders{orders: map[string]*domain.Order{
		"ord-9": {
			ID:            "ord-9",
			Items:         []domain.OrderItem{{ProductID: "glazed", Name: "Glazed Donut", Quantity: 2, UnitPrice: decimal.RequireFromString("9.50")}},
			Subtotal:      decimal.NewFromInt(19),
			Total:         decimal.NewFromInt(19),
			DeliveryType:  domain.DeliveryTypePickup,
			Phone:         "5551234567",
			PaymentMethod: domain.PaymentMethodCash,
		},
	}}

	router, err := buildRouter(logDiscard(), nil, Deps{Sessions: store, Catalog: catalog, Orders: orders}, nil)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, submitter
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func openSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", rec.Code, rec.Body)
	}
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	return resp.SessionID
}

func TestHealthRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/sessions/nope/ticket", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddItemStacksOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openSession(t, router)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/items", `{"productId":"glazed"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("add item: status %d body %s", rec.Code, rec.Body)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+id+"/ticket", "")
	var view ticketView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected one stacked line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.Lines[0].Quantity)
	}
	if view.Pricing.Subtotal != "28.50" {
		t.Fatalf("expected subtotal 28.50, got %s", view.Pricing.Subtotal)
	}
}

func TestAddItemUnknownOptionRejected(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openSession(t, router)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/items", `{"productId":"filled","optionIds":["999"]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown option, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/sessions/"+id+"/ticket", "")
	var view ticketView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatal("rejected item must not leave a partial line")
	}
}

func TestRewardConflictOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openSession(t, router)
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/items", `{"productId":"glazed"}`)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/reward", `{"rewardId":"rw-1","name":"Free Donut"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply reward: status %d body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/reward", `{"rewardId":"rw-2","name":"Another"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second reward, got %d", rec.Code)
	}
}

func TestPickupCashCheckoutOverHTTP(t *testing.T) {
	router, submitter := newTestRouter(t)
	id := openSession(t, router)
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/items", `{"productId":"glazed"}`)

	steps := []struct {
		path string
		body string
	}{
		{"/checkout", `{"phone":"5551234567"}`},
		{"/checkout/delivery", `{"type":"pickup"}`},
		{"/checkout/payment", `{"method":"cash","cashTendered":"20"}`},
	}
	for _, step := range steps {
		rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+step.path, step.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d body %s", step.path, rec.Code, rec.Body)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+id+"/checkout", "")
	var view checkoutView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	if view.State != string(domain.StateSucceeded) {
		t.Fatalf("expected succeeded, got %s", view.State)
	}
	if view.OrderID != "ord-1" {
		t.Fatalf("expected order id ord-1, got %q", view.OrderID)
	}
	if len(submitter.orders) != 1 {
		t.Fatalf("expected one submitted order, got %d", len(submitter.orders))
	}
	if submitter.orders[0].Phone != "5551234567" {
		t.Fatalf("payload phone lost: %+v", submitter.orders[0])
	}
}

func TestInsufficientCashOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openSession(t, router)
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/ticket/items", `{"productId":"glazed"}`)
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout", `{"phone":"5551234567"}`)
	doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout/delivery", `{"type":"pickup"}`)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout/payment", `{"method":"cash","cashTendered":"5"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short tender, got %d body %s", rec.Code, rec.Body)
	}
}

func TestOrderLookup(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/orders/ord-9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup: status %d body %s", rec.Code, rec.Body)
	}
	var view orderView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if view.OrderID != "ord-9" || view.Total != "19.00" {
		t.Fatalf("unexpected order view %+v", view)
	}
	if len(view.Items) != 1 || view.Items[0].UnitPrice != "9.50" {
		t.Fatalf("unexpected items %+v", view.Items)
	}

	rec = doJSON(t, router, http.MethodGet, "/orders/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", rec.Code)
	}
}

func TestBeginCheckoutOnEmptyTicket(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openSession(t, router)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout", `{"phone":"5551234567"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty ticket, got %d", rec.Code)
	}
}
