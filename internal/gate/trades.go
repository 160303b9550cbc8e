package gate

import (
	"strconv"
	"time"

	"github.com/finbridge/mt4-gateway/internal/mt4"
	"github.com/finbridge/mt4-gateway/internal/render"
)

// lotsToVolume converts a lot volume to the manager's integer hundredths
// representation, truncating toward zero as a 32-bit conversion.
func lotsToVolume(lots float64) int {
	return int(int32(lots * 100))
}

// ListOrders writes the capped order array into buf. A positive login selects
// that account's history, anything else lists all open trades.
func (s *Session) ListOrders(login int, buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("list_orders", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if len(buf) == 0 {
		return 0, s.done("list_orders", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid buffer parameter"})
	}

	n := 0
	err := guard("Unknown error", func() error {
		var (
			trades  []mt4.TradeRecord
			release mt4.ReleaseFunc
			rerr    error
		)
		if login > 0 {
			trades, release, rerr = s.manager.TradesUserHistory(login, 0, time.Now().Unix())
		} else {
			trades, release, rerr = s.manager.TradesRequest()
		}
		defer free(release)

		if rerr != nil {
			trades = nil
		}
		var eerr error
		n, eerr = emit(buf, render.OrderList(trades))
		return eerr
	})
	return n, s.done("list_orders", strconv.Itoa(login), err)
}

// OpenOrder submits an open transaction and writes the assigned ticket into
// buf. The login parameter is accepted for interface parity but the
// transaction struct of this manager build does not carry it.
func (s *Session) OpenOrder(login int, symbol string, cmd int, lots, price, stopLoss, takeProfit float64, comment string, buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("open_order", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if symbol == "" || len(buf) == 0 {
		return 0, s.done("open_order", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid parameters"})
	}
	if !s.IsConnected() {
		return 0, s.done("open_order", "", &Error{Status: StatusNotConnected, Msg: "Not connected"})
	}

	n := 0
	err := guard("Unknown error opening trade", func() error {
		trans := mt4.TradeTransInfo{
			Type:    cmd,
			Cmd:     cmd,
			Symbol:  mt4.Truncate(symbol, mt4.SymbolWidth),
			Volume:  lotsToVolume(lots),
			Price:   price,
			SL:      stopLoss,
			TP:      takeProfit,
			Comment: mt4.Truncate(comment, mt4.CommentWidth),
		}

		if terr := s.manager.TradeTransaction(&trans); terr != nil {
			return &Error{Status: StatusInternal, Msg: remoteMsg(terr, "Trade transaction failed")}
		}
		var eerr error
		n, eerr = emit(buf, render.Ticket(trans.Order))
		return eerr
	})
	return n, s.done("open_order", symbol, err)
}

// CloseOrder closes an existing order. Caller-supplied lots and price apply
// when positive; otherwise the order's own volume and close price are used.
// The command side is fixed to buy rather than derived from the order being
// closed, matching the deployed behavior.
func (s *Session) CloseOrder(order int, lots, price float64) error {
	if s.notReady() {
		return s.done("close_order", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if !s.IsConnected() {
		return s.done("close_order", "", &Error{Status: StatusNotConnected, Msg: "Not connected"})
	}

	err := guard("Unknown error closing trade", func() error {
		trade, gerr := s.manager.TradeRecordGet(order)
		if gerr != nil {
			return &Error{Status: StatusInternal, Msg: "Trade not found"}
		}

		trans := mt4.TradeTransInfo{
			Type:    mt4.TransOrderCloseBy,
			Cmd:     mt4.OpBuy,
			Order:   order,
			OrderBy: order,
			Symbol:  trade.Symbol,
		}
		if lots > 0 {
			trans.Volume = lotsToVolume(lots)
		} else {
			trans.Volume = trade.Volume
		}
		if price > 0 {
			trans.Price = price
		} else {
			trans.Price = trade.ClosePrice
		}

		if terr := s.manager.TradeTransaction(&trans); terr != nil {
			return &Error{Status: StatusInternal, Msg: remoteMsg(terr, "Close trade failed")}
		}
		return nil
	})
	return s.done("close_order", strconv.Itoa(order), err)
}
