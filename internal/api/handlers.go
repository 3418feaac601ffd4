package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"exchange_sdk/internal/models"
	"exchange_sdk/sdk"
)

// handleExchangeInfo 交易对规则
func (s *Server) handleExchangeInfo(c *gin.Context) {
	info, err := s.gateway.ExchangeInfo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	info.Symbols = nonNil(info.Symbols)
	c.JSON(http.StatusOK, info)
}

// handleDepth 盘口深度
func (s *Server) handleDepth(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		writeError(c, err)
		return
	}
	book, err := s.gateway.OrderBook(c.Request.Context(), c.Query(models.ParamSymbol), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	book.Asks, book.Bids = nonNil(book.Asks), nonNil(book.Bids)
	c.JSON(http.StatusOK, book)
}

// handleTrades 最近成交
func (s *Server) handleTrades(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		writeError(c, err)
		return
	}
	trades, err := s.gateway.Trades(c.Request.Context(), c.Query(models.ParamSymbol), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(trades))
}

// handleAggTrades 归集成交
func (s *Server) handleAggTrades(c *gin.Context) {
	limit, start, end, err := historyParams(c)
	if err != nil {
		writeError(c, err)
		return
	}
	trades, err := s.gateway.AggTrades(c.Request.Context(), c.Query(models.ParamSymbol), sdk.AggTradeParams{
		Limit:   limit,
		Start:   start,
		StartID: c.Query(models.ParamFromID),
		End:     end,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(trades))
}

// handlePlaceOrder 下单
func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, sdk.InvalidParams{Detail: "请求参数错误: " + err.Error(), Cause: err})
		return
	}
	order, err := req.ToOrder()
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := s.session(c).PlaceOrder(c.Request.Context(), req.Symbol, order)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OrderResponse{OrderID: resp.OrderID, Symbol: req.Symbol})
}

// handleQueryOrder 查单
func (s *Server) handleQueryOrder(c *gin.Context) {
	symbol, orderID := c.Query(models.ParamSymbol), c.Query(models.ParamOrderID)
	resp, err := s.session(c).QueryOrder(c.Request.Context(), symbol, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OrderResponse{
		OrderID:     orderID,
		Symbol:      symbol,
		Status:      string(resp.Status),
		ExecutedQty: resp.ExecutedQty,
	})
}

// handleCancelOrder 撤单
func (s *Server) handleCancelOrder(c *gin.Context) {
	symbol, orderID := c.Query(models.ParamSymbol), c.Query(models.ParamOrderID)
	if err := s.session(c).CancelOrder(c.Request.Context(), symbol, orderID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OrderResponse{OrderID: orderID, Symbol: symbol})
}

// handleCancelAll 撤销全部挂单
func (s *Server) handleCancelAll(c *gin.Context) {
	symbol := c.Query(models.ParamSymbol)
	if err := s.session(c).CancelAllOrders(c.Request.Context(), symbol); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol})
}

// handleBalance 余额
func (s *Server) handleBalance(c *gin.Context) {
	asset := c.Query(models.ParamAsset)
	b, err := s.session(c).GetBalance(c.Request.Context(), asset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BalanceResponse{Asset: asset, Free: b.Free, Locked: b.Locked})
}

// handleMyTrades 账户成交
func (s *Server) handleMyTrades(c *gin.Context) {
	limit, start, end, uerr := historyParams(c)
	if uerr != nil {
		writeError(c, uerr)
		return
	}
	trades, err := s.session(c).UserTrades(c.Request.Context(), c.Query(models.ParamSymbol), sdk.UserTradeParams{
		Limit:   limit,
		Start:   start,
		End:     end,
		StartID: c.Query(models.ParamFromID),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(trades))
}

// handleWithdraw 提币
func (s *Server) handleWithdraw(c *gin.Context) {
	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, sdk.InvalidParams{Detail: "请求参数错误: " + err.Error(), Cause: err})
		return
	}
	if err := s.session(c).Withdraw(c.Request.Context(), req.Coin, req.Address, req.Amount, req.Network); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleDepositAddress 充值地址
func (s *Server) handleDepositAddress(c *gin.Context) {
	coin, network := c.Query(models.ParamCoin), c.Query(models.ParamNetwork)
	addr, err := s.session(c).GetDepositAddress(c.Request.Context(), coin, network)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DepositAddressResponse{Coin: coin, Network: network, Address: addr})
}

// handleWithdrawalMethods 提币网络
func (s *Server) handleWithdrawalMethods(c *gin.Context) {
	methods, err := s.session(c).GetWithdrawalMethods(c.Request.Context(), c.Query(models.ParamCoin))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(methods))
}
