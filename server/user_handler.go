package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cyrus0315/payperinsight/content"
)

func itemContentID(item content.Item) string {
	return strconv.FormatInt(item.ContentID, 10)
}

func (s *Server) requireWallet(c *gin.Context) (string, bool) {
	address := c.GetHeader(HeaderWalletAddress)
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address required"})
		return "", false
	}
	return address, true
}

// GET /api/user/unlocked
func (s *Server) getUnlockedContents(c *gin.Context) {
	address, ok := s.requireWallet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.ledger.UnlockedContents(address))
}

// GET /api/user/stats
func (s *Server) getStats(c *gin.Context) {
	address, ok := s.requireWallet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.ledger.GetStats(address))
}

// GET /api/user/profile
func (s *Server) getProfile(c *gin.Context) {
	address, ok := s.requireWallet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.ledger.GetOrCreate(address))
}

// GET /api/user/check-unlock/:contentId
//
// Consults the contract when an RPC endpoint is configured; the chain is
// the source of truth for unlock status. Falls back to the ledger when the
// chain is unconfigured or unreachable.
func (s *Server) checkUnlock(c *gin.Context) {
	address := c.GetHeader(HeaderWalletAddress)
	contentID := c.Param("contentId")
	if address == "" {
		c.JSON(http.StatusOK, gin.H{"unlocked": false})
		return
	}

	if s.chain != nil {
		if numericID, err := strconv.ParseInt(contentID, 10, 64); err == nil {
			unlocked, err := s.chain.HasUnlocked(c.Request.Context(), numericID, address)
			if err == nil {
				c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
				return
			}
			s.log.Warn("chain hasUnlocked failed, falling back to ledger",
				"contentId", contentID, "err", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": s.ledger.HasUnlocked(address, contentID)})
}
