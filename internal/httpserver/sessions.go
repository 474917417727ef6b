package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/reward"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/session"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

func (h *handlers) session(c *gin.Context) (*session.Session, bool) {
	sess, err := h.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *handlers) renderTicket(c *gin.Context, status int, sess *session.Session) {
	c.JSON(status, toTicketView(sess.Ticket.Ticket(), sess.Flow.Snapshot()))
}

func (h *handlers) createSession(c *gin.Context) {
	sess := h.deps.Sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"sessionId": sess.ID, "createdAt": sess.CreatedAt})
}

func (h *handlers) deleteSession(c *gin.Context) {
	h.deps.Sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *handlers) getTicket(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	h.renderTicket(c, http.StatusOK, sess)
}

type addItemInput struct {
	ProductID string   `json:"productId"`
	OptionIDs []string `json:"optionIds,omitempty"`
	Quantity  int      `json:"quantity,omitempty"`
}

func (h *handlers) addItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var in addItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.ProductID) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "productId required"})
		return
	}
	if in.Quantity < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "quantity must be positive"})
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	item, err := h.deps.Catalog.GetItem(c.Request.Context(), in.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	selected, err := selectOptions(item, in.OptionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	for i := 0; i < in.Quantity; i++ {
		sess.Ticket.AddItem(item, selected)
	}
	h.renderTicket(c, http.StatusOK, sess)
}

// selectOptions resolves the requested option ids against the catalog
// item. An id the item does not offer is rejected here, before it can
// produce a malformed line.
func selectOptions(item domain.Item, optionIDs []string) ([]domain.Option, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	byID := make(map[string]domain.Option, len(item.Options))
	for _, opt := range item.Options {
		byID[opt.ID] = opt
	}
	selected := make([]domain.Option, 0, len(optionIDs))
	for _, id := range optionIDs {
		opt, ok := byID[id]
		if !ok {
			return nil, domain.ErrMalformedItem
		}
		selected = append(selected, opt)
	}
	return selected, nil
}

func (h *handlers) incrementLine(c *gin.Context) {
	h.mutateLine(c, func(sess *session.Session, lineID string) error {
		return sess.Ticket.Increment(lineID)
	})
}

func (h *handlers) decrementLine(c *gin.Context) {
	h.mutateLine(c, func(sess *session.Session, lineID string) error {
		return sess.Ticket.Decrement(lineID)
	})
}

func (h *handlers) removeLine(c *gin.Context) {
	h.mutateLine(c, func(sess *session.Session, lineID string) error {
		return sess.Ticket.Remove(lineID)
	})
}

func (h *handlers) mutateLine(c *gin.Context, op func(*session.Session, string) error) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	if err := op(sess, c.Param("lineId")); err != nil {
		respondError(c, err)
		return
	}
	h.renderTicket(c, http.StatusOK, sess)
}

func (h *handlers) clearTicket(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	sess.Ticket.Clear()
	h.renderTicket(c, http.StatusOK, sess)
}

type applyRewardInput struct {
	RewardID string `json:"rewardId"`
	Name     string `json:"name"`
}

func (h *handlers) applyReward(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var in applyRewardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.RewardID) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "rewardId required"})
		return
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	lineID, err := h.deps.Sessions.ApplyReward(sess, reward.Reward{ID: in.RewardID, Name: in.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"discountedLineId": lineID,
		"ticket":           toTicketView(sess.Ticket.Ticket(), sess.Flow.Snapshot()),
	})
}
