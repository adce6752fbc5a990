package server

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyrus0315/payperinsight/payment"
	"github.com/cyrus0315/payperinsight/unlock"
)

// GET /api/payment/status
func (s *Server) paymentStatus(c *gin.Context) {
	recipient := s.cfg.RecipientWallet
	if recipient == "" {
		recipient = "not-configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":   s.cfg.FacilitatorEnabled(),
		"network":   s.cfg.Network,
		"chainId":   s.cfg.ChainID,
		"recipient": recipient,
	})
}

type verifyPaymentRequest struct {
	PaymentData string `json:"paymentData"`
	ContentID   string `json:"contentId" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

// POST /api/payment/verify
//
// Standalone verification for client testing. The X-Payment header takes
// precedence over the body's paymentData, matching the content endpoint.
func (s *Server) verifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentData := c.GetHeader(HeaderPayment)
	if paymentData == "" {
		paymentData = req.PaymentData
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	result, err := s.verifier.Verify(c.Request.Context(), payment.Request{
		PaymentData:    paymentData,
		ExpectedAmount: amount,
		ContentID:      req.ContentID,
		ResourceURL:    s.gate.ResourceURL(req.ContentID),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, payment.Result{
			Success: false,
			Error:   unlock.ErrVerification.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/payment/config
func (s *Server) paymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"network": gin.H{
			"name":    s.cfg.Network,
			"chainId": s.cfg.ChainID,
			"rpcUrl":  s.cfg.RPCURL,
			"currency": gin.H{
				"name":     "Monad",
				"symbol":   "MON",
				"decimals": 18,
			},
		},
		"facilitator": gin.H{
			"enabled":   s.cfg.FacilitatorEnabled(),
			"url":       s.cfg.FacilitatorURL,
			"recipient": s.cfg.RecipientWallet,
		},
		"contract": gin.H{
			"address": s.cfg.ContractAddress,
		},
	})
}
