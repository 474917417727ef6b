package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/session"
)

const quoteLookupTimeout = 15 * time.Second

func (h *handlers) renderCheckout(c *gin.Context, sess *session.Session) {
	c.JSON(http.StatusOK, checkoutView{
		State:   string(sess.Flow.State()),
		Draft:   sess.Flow.Draft(),
		Pricing: toPricingView(sess.Flow.Snapshot()),
		OrderID: sess.Flow.OrderID(),
	})
}

func (h *handlers) getCheckout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.renderCheckout(c, sess)
}

type beginCheckoutInput struct {
	Phone string `json:"phone"`
}

func (h *handlers) beginCheckout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var in beginCheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.Begin(in.Phone); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}

type chooseDeliveryInput struct {
	Type string `json:"type"`
}

func (h *handlers) chooseDelivery(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var in chooseDeliveryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.ChooseDelivery(domain.DeliveryType(in.Type)); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}

type setAddressInput struct {
	Address string `json:"address"`
}

func (h *handlers) setAddress(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var in setAddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	gen, err := sess.Flow.SetAddress(in.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	// The lookup outlives this request; the generation token makes sure a
	// result superseded by a newer address edit is dropped.
	flow := sess.Flow
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), quoteLookupTimeout)
		defer cancel()
		flow.FetchQuote(ctx, gen)
	}()

	h.renderCheckout(c, sess)
}

func (h *handlers) confirmAddress(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.ConfirmAddress(); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}

type choosePaymentInput struct {
	Method       string `json:"method"`
	CashTendered string `json:"cashTendered,omitempty"`
}

func (h *handlers) choosePayment(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var in choosePaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var tendered *decimal.Decimal
	if in.CashTendered != "" {
		d, err := decimal.NewFromString(in.CashTendered)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid cashTendered amount"})
			return
		}
		tendered = &d
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.ChoosePayment(c.Request.Context(), domain.PaymentMethod(in.Method), tendered); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}

func (h *handlers) confirmPayment(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.ConfirmPayment(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}

func (h *handlers) retrySubmission(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.Retry(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}

func (h *handlers) cancelCheckout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := sess.Flow.Cancel(); err != nil {
		respondError(c, err)
		return
	}
	h.renderCheckout(c, sess)
}
