package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	apperrors "raffle-tool-backend/internal/common/errors"
	"raffle-tool-backend/internal/common/logger"
	"raffle-tool-backend/internal/common/middleware"
	"raffle-tool-backend/internal/features/raffle/models/dto"
	raffleservice "raffle-tool-backend/internal/features/raffle/service"
	"raffle-tool-backend/internal/platform/ton"
)

type RaffleHandler struct {
	service raffleservice.RaffleService
	balance *ton.BalanceChecker
	bank    ton.PrizeBank
}

func NewRaffleHandler(service raffleservice.RaffleService, balance *ton.BalanceChecker, bank ton.PrizeBank) *RaffleHandler {
	return &RaffleHandler{
		service: service,
		balance: balance,
		bank:    bank,
	}
}

func (h *RaffleHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	raffle := router.Group("/raffle")
	{
		raffle.GET("", h.getRound)
		raffle.GET("/upkeep", h.checkUpkeep)
		raffle.POST("/upkeep", h.performUpkeep)
		raffle.GET("/players/:index", h.getPlayer)
		raffle.GET("/bank", h.getBank)
		raffle.POST("/entries", auth, h.enter)
	}
}

// @Summary Enter the current raffle round
// @Description Records one entry for the paid amount. The same player may enter multiple times; each entry is one slot in the draw.
// @Tags raffle
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body dto.EnterRequest true "Player address and paid amount"
// @Success 200 {object} dto.EnterResponse "Recorded entry"
// @Failure 400 {object} dto.ErrorResponse "Payment below entrance fee or invalid input"
// @Failure 401 {object} dto.ErrorResponse "Not authorized"
// @Failure 409 {object} dto.ErrorResponse "Round is not accepting entries"
// @Router /raffle/entries [post]
func (h *RaffleHandler) enter(c *gin.Context) {
	var input dto.EnterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := address.ParseAddr(input.Address)
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("address", "not a valid TON address"))
		return
	}

	amount, err := tlb.FromTON(input.Amount)
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("amount", "not a valid TON amount"))
		return
	}

	if user, exists := c.Get(middleware.UserCtxKey); exists {
		if tgUser, ok := user.(initdata.User); ok {
			logger.Debug().
				Int64("telegram_id", tgUser.ID).
				Str("player", player.String()).
				Msg("Entry request")
		}
	}

	if err := h.service.Enter(c.Request.Context(), player, amount); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.EnterResponse{
		Player:       player.String(),
		PlayersCount: h.service.PlayerCount(),
		PotTon:       h.service.Pot().String(),
	})
}

// @Summary Current round
// @Description Returns the state of the raffle round, its parameters and the most recent winner.
// @Tags raffle
// @Produce json
// @Success 200 {object} dto.RoundResponse
// @Router /raffle [get]
func (h *RaffleHandler) getRound(c *gin.Context) {
	resp := dto.RoundResponse{
		State:            string(h.service.State()),
		PlayersCount:     h.service.PlayerCount(),
		PotTon:           h.service.Pot().String(),
		EntranceFeeTon:   h.service.EntranceFee().String(),
		IntervalSec:      int64(h.service.Interval().Seconds()),
		LastDrawAt:       h.service.LastDrawAt(),
		PendingRequestID: h.service.PendingRequestID(),
	}
	if winner := h.service.RecentWinner(); winner != nil {
		resp.RecentWinner = winner.String()
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Check draw conditions
// @Description Pure predicate: true when the interval elapsed, the round is open, the pot is non-empty and at least one player entered.
// @Tags raffle
// @Produce json
// @Success 200 {object} dto.UpkeepResponse
// @Router /raffle/upkeep [get]
func (h *RaffleHandler) checkUpkeep(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UpkeepResponse{UpkeepNeeded: h.service.CheckUpkeep()})
}

// @Summary Start a draw
// @Description Closes entries and issues one randomness request to the oracle. Callable by anyone; conditions are re-verified server-side.
// @Tags raffle
// @Produce json
// @Success 200 {object} dto.PerformUpkeepResponse "Issued randomness request"
// @Failure 409 {object} dto.ErrorResponse "Upkeep conditions not met"
// @Router /raffle/upkeep [post]
func (h *RaffleHandler) performUpkeep(c *gin.Context) {
	requestID, err := h.service.PerformUpkeep(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PerformUpkeepResponse{
		RequestID: requestID,
		State:     string(h.service.State()),
	})
}

// @Summary Player at index
// @Description Returns the ledger slot at the given index in entry order.
// @Tags raffle
// @Produce json
// @Param index path int true "Slot index"
// @Success 200 {object} dto.PlayerResponse
// @Failure 404 {object} dto.ErrorResponse "Index out of range"
// @Router /raffle/players/{index} [get]
func (h *RaffleHandler) getPlayer(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("index", "must be an integer"))
		return
	}

	player, err := h.service.Player(index)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PlayerResponse{Index: index, Player: player.String()})
}

// @Summary Prize wallet info
// @Description Returns the prize wallet address and, when TonAPI is configured, its on-chain balance.
// @Tags raffle
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /raffle/bank [get]
func (h *RaffleHandler) getBank(c *gin.Context) {
	resp := gin.H{"address": h.bank.Address()}

	if h.balance != nil && h.bank.Address() != "" {
		nano, err := h.balance.GetAddressBalanceNano(c.Request.Context(), h.bank.Address())
		if err != nil {
			_ = c.Error(apperrors.Wrap(err, apperrors.ErrCodeTonAPI, "Failed to read prize wallet balance"))
			return
		}
		resp["balance_nano"] = nano
	}

	c.JSON(http.StatusOK, resp)
}
