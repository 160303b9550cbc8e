package gate

import (
	"math"
	"time"

	"github.com/finbridge/mt4-gateway/internal/mt4"
	"github.com/finbridge/mt4-gateway/internal/render"
)

// ListInstruments refreshes the symbol configuration from the server and
// writes the capped instrument array into buf.
func (s *Session) ListInstruments(buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("list_instruments", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if len(buf) == 0 {
		return 0, s.done("list_instruments", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid buffer parameter"})
	}

	n := 0
	err := guard("Unknown error getting symbols", func() error {
		// Refresh first; a stale configuration is worse than a slow one.
		s.manager.SymbolsRefresh()

		symbols, release, rerr := s.manager.SymbolsGetAll()
		defer free(release)

		if rerr != nil {
			symbols = nil
		}
		var eerr error
		n, eerr = emit(buf, render.InstrumentList(symbols))
		return eerr
	})
	return n, s.done("list_instruments", "", err)
}

// GetQuote writes one price quote into buf, taking the most authoritative
// source available: the updated-symbols feed, then the last tick, then the
// static symbol info. No data anywhere is an error, never a zero quote.
func (s *Session) GetQuote(symbol string, buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("get_quote", symbol, &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if !s.IsConnected() {
		return 0, s.done("get_quote", symbol, &Error{Status: StatusNotConnected, Msg: "Not connected to server"})
	}
	if symbol == "" || len(buf) == 0 {
		return 0, s.done("get_quote", symbol, &Error{Status: StatusInvalidParameter, Msg: "Invalid parameters"})
	}

	n := 0
	err := guard("Unknown error getting quote", func() error {
		// Freshest source: the updated-symbols window.
		if updated, uerr := s.manager.SymbolInfoUpdated(mt4.MaxUpdatedSymbols); uerr == nil {
			for _, info := range updated {
				if info.Symbol != symbol {
					continue
				}
				if info.Bid > 0 || info.Ask > 0 {
					var eerr error
					n, eerr = emit(buf, render.Quote(symbol, info.Bid, info.Ask, info.Spread, info.Digits, info.LastTime))
					return eerr
				}
				break
			}
		}

		ticks, release, terr := s.manager.TickInfoLast(symbol)
		defer free(release)

		if terr != nil || len(ticks) == 0 {
			// Static symbol info is the last fallback.
			info, ierr := s.manager.SymbolInfoGet(symbol)
			if ierr != nil {
				return &Error{Status: StatusInternal, Msg: "No price data available for symbol"}
			}
			var eerr error
			n, eerr = emit(buf, render.Quote(symbol, info.Bid, info.Ask, info.Spread, info.Digits, time.Now().Unix()))
			return eerr
		}

		tick := ticks[len(ticks)-1]
		info, _ := s.manager.SymbolInfoGet(symbol)
		spread := int((tick.Ask - tick.Bid) * math.Pow(10, float64(info.Digits)))

		var eerr error
		n, eerr = emit(buf, render.Quote(symbol, tick.Bid, tick.Ask, spread, info.Digits, tick.Ctm))
		return eerr
	})
	return n, s.done("get_quote", symbol, err)
}
