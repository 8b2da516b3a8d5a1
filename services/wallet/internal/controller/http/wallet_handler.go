package http

import (
	"errors"
	"net/http"
	"strconv"

	"streamboom/pkg/boombucks"
	"streamboom/pkg/config"
	"streamboom/pkg/logger"
	"streamboom/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	cfg           *config.Config
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, cfg *config.Config, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		cfg:           cfg,
		logger:        logger,
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, usecase.ErrInsufficientBalance) ||
		errors.Is(err, usecase.ErrNothingToCredit) ||
		errors.Is(err, usecase.ErrInvalidCurrency) ||
		errors.Is(err, usecase.ErrStreamNotFound) ||
		errors.Is(err, usecase.ErrSelfDonation)
}

// GetWallet godoc
// @Summary      Get wallet
// @Description  Get Boombucks balance for the authenticated user
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Wallet
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := c.GetString("user_id")

	wallet, err := h.walletUseCase.GetWallet(userID)
	if err != nil {
		h.logger.Error("Failed to get wallet: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

type PurchaseRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
}

// Purchase godoc
// @Summary      Buy Boombucks
// @Description  Convert an external currency amount to Boombucks and credit the wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseRequest true "Purchase amount and currency"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /wallet/purchase [post]
func (h *WalletHandler) Purchase(c *gin.Context) {
	userID := c.GetString("user_id")

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, transaction, err := h.walletUseCase.Purchase(userID, req.Amount, boombucks.Currency(req.Currency))
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			h.logger.Error("Failed to purchase: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":      wallet,
		"transaction": transaction,
	})
}

type DonateRequest struct {
	Amount  int    `json:"amount" binding:"required,min=1"`
	Message string `json:"message"`
}

// Donate godoc
// @Summary      Donate to a stream
// @Description  Send Boombucks to the owner of a live stream
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        stream_id path string true "Stream ID"
// @Param        request body DonateRequest true "Donation amount"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /wallet/donate/{stream_id} [post]
func (h *WalletHandler) Donate(c *gin.Context) {
	userID := c.GetString("user_id")
	streamID := c.Param("stream_id")

	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletUseCase.Donate(userID, streamID, req.Amount, req.Message)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			h.logger.Error("Failed to donate: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Donation sent successfully",
		"wallet":  wallet,
		"amount":  req.Amount,
	})
}

type WithdrawRequest struct {
	Amount        int    `json:"amount" binding:"required,min=1"`
	Method        string `json:"method" binding:"required"`
	MethodDetails string `json:"method_details" binding:"required"`
}

// Withdraw godoc
// @Summary      Request a withdrawal
// @Description  Debit Boombucks and open a payout request for manual processing
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WithdrawRequest true "Withdrawal details"
// @Success      200  {object}  entity.WithdrawalRequest
// @Failure      400  {object}  map[string]string
// @Router       /wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID := c.GetString("user_id")

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.walletUseCase.Withdraw(userID, req.Amount, req.Method, req.MethodDetails)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			h.logger.Error("Failed to withdraw: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetTransactions godoc
// @Summary      Get transactions
// @Description  Get transaction history for the authenticated user
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := c.GetString("user_id")
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	transactions, err := h.walletUseCase.GetTransactions(userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// GetDonations godoc
// @Summary      Get donations
// @Description  Get recent donations for a stream
// @Tags         wallet
// @Produce      json
// @Param        stream_id query string true "Stream ID"
// @Param        limit query int false "Number of donations"
// @Success      200  {object}  map[string]interface{}
// @Router       /donations [get]
func (h *WalletHandler) GetDonations(c *gin.Context) {
	streamID := c.Query("stream_id")
	if streamID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stream_id is required"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	donations, err := h.walletUseCase.GetDonations(streamID, limit)
	if err != nil {
		h.logger.Error("Failed to get donations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

// GetPaymentInfo godoc
// @Summary      Payment info
// @Description  Payment destinations and currency rates for buying Boombucks
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/payment-info [get]
func (h *WalletHandler) GetPaymentInfo(c *gin.Context) {
	currencies := make(map[string]gin.H)
	for _, cur := range []boombucks.Currency{
		boombucks.USD, boombucks.EUR, boombucks.KZT, boombucks.RUB,
		boombucks.USDT, boombucks.Phone, boombucks.Memecoin,
	} {
		info, _ := boombucks.Lookup(cur)
		currencies[string(cur)] = gin.H{
			"label":   info.Label,
			"presets": info.Presets,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"crypto_wallet":       h.cfg.CryptoWallet,
		"payment_phone":       h.cfg.PaymentPhone,
		"rubles_per_boombuck": boombucks.RublesPerBoombuck,
		"currencies":          currencies,
	})
}
