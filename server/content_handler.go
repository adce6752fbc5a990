package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyrus0315/payperinsight/content"
	"github.com/cyrus0315/payperinsight/unlock"
)

// pricedItem is a catalog item decorated with its derived current price.
type pricedItem struct {
	content.Item
	CurrentPrice string `json:"currentPrice"`
}

func (s *Server) priced(item content.Item) pricedItem {
	out := pricedItem{Item: item}
	out.FullContent = ""
	price, err := unlock.CurrentPrice(item)
	if err != nil {
		s.log.Error("failed to derive price", "contentId", item.ContentID, "err", err)
		out.CurrentPrice = item.BasePrice
		return out
	}
	out.CurrentPrice = price.String()
	return out
}

// GET /api/content
func (s *Server) listContent(c *gin.Context) {
	var items []content.Item
	if search := c.Query("search"); search != "" {
		items = s.store.Search(search)
	} else if category := c.Query("category"); category != "" {
		items = s.store.ByCategory(category)
	} else {
		items = s.store.List()
	}

	out := make([]pricedItem, 0, len(items))
	for _, item := range items {
		out = append(out, s.priced(item))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/content/:id/preview
func (s *Server) getPreview(c *gin.Context) {
	item, err := s.store.Preview(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.priced(item))
}

// GET /api/content/:id
//
// The x402 flow: without an X-Payment header the gate answers 402 with the
// current price and payee identity; with one, the proof is verified and the
// full body released.
func (s *Server) getFullContent(c *gin.Context) {
	result, err := s.gate.Unlock(c.Request.Context(), unlock.Request{
		ID:            c.Param("id"),
		PaymentData:   c.GetHeader(HeaderPayment),
		WalletAddress: c.GetHeader(HeaderWalletAddress),
	})
	if err != nil {
		var payErr *unlock.PaymentRequiredError
		switch {
		case errors.As(err, &payErr):
			c.JSON(http.StatusPaymentRequired, payErr.Challenge)
		case errors.Is(err, content.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Payment processing error",
				"error":   err.Error(),
			})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/content
func (s *Server) createContent(c *gin.Context) {
	creator := c.GetHeader(HeaderWalletAddress)
	if creator == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address required"})
		return
	}

	var req content.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := s.store.Create(req, creator)
	s.ledger.RecordCreation(creator, itemContentID(item))

	s.log.Info("content created", "contentId", item.ContentID, "creator", creator)
	c.JSON(http.StatusCreated, item)
}

// GET /api/content/meta/categories
func (s *Server) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Categories())
}
