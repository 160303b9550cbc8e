package gate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbridge/mt4-gateway/internal/mt4"
)

func TestListInstruments(t *testing.T) {
	t.Run("lists refreshed symbols", func(t *testing.T) {
		s, mgr := initialized(t, false)
		buf := make([]byte, 4096)

		n, err := s.ListInstruments(buf)
		require.NoError(t, err)
		out := string(buf[:n])
		assert.Contains(t, out, `"symbol":"EURUSD"`)
		assert.Contains(t, out, `"symbol":"GBPUSD"`)
		assert.Equal(t, 1, mgr.Releases)
	})

	t.Run("empty set", func(t *testing.T) {
		s, mgr := initialized(t, false)
		mgr.Symbols = nil
		buf := make([]byte, 64)

		n, err := s.ListInstruments(buf)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(buf[:n]))
	})

	t.Run("caps at 50 rows", func(t *testing.T) {
		s, mgr := initialized(t, false)
		mgr.Symbols = nil
		for i := 0; i < 75; i++ {
			mgr.Symbols = append(mgr.Symbols, mt4.SymbolRecord{Symbol: fmt.Sprintf("SYM%d", i)})
		}
		buf := make([]byte, 1<<16)

		n, err := s.ListInstruments(buf)
		require.NoError(t, err)
		assert.Equal(t, 50, strings.Count(string(buf[:n]), `"symbol"`))
	})

	t.Run("buffer too small releases once", func(t *testing.T) {
		s, mgr := initialized(t, false)
		buf := make([]byte, 8)

		_, err := s.ListInstruments(buf)
		assert.Equal(t, StatusBufferTooSmall, StatusOf(err))
		assert.Equal(t, 1, mgr.Releases)
	})
}

func TestGetQuote(t *testing.T) {
	t.Run("requires connection", func(t *testing.T) {
		s, _ := initialized(t, false)
		buf := make([]byte, 256)
		_, err := s.GetQuote("EURUSD", buf)
		assert.Equal(t, StatusNotConnected, StatusOf(err))
	})

	t.Run("updated feed is the first source", func(t *testing.T) {
		s, mgr := initialized(t, true)
		mgr.Updated = []mt4.SymbolInfo{
			{Symbol: "EURUSD", Bid: 1.2001, Ask: 1.2003, Spread: 2, Digits: 5, LastTime: 1700000100},
		}
		buf := make([]byte, 256)

		n, err := s.GetQuote("EURUSD", buf)
		require.NoError(t, err)
		assert.Equal(t, `{"symbol":"EURUSD","bid":1.2001,"ask":1.2003,"spread":2,"digits":5,"time":1700000100}`, string(buf[:n]))
		assert.Equal(t, 0, mgr.Releases, "tick feed never touched")
	})

	t.Run("last tick with derived spread", func(t *testing.T) {
		s, mgr := initialized(t, true)
		mgr.Infos["GBPJPY"] = mt4.SymbolInfo{Symbol: "GBPJPY", Digits: 2}
		mgr.Ticks["GBPJPY"] = []mt4.TickInfo{
			{Symbol: "GBPJPY", Bid: 150.0, Ask: 150.25, Ctm: 1700000200},
			{Symbol: "GBPJPY", Bid: 150.25, Ask: 150.75, Ctm: 1700000300},
		}
		buf := make([]byte, 256)

		n, err := s.GetQuote("GBPJPY", buf)
		require.NoError(t, err)
		// Most recent tick, spread (ask-bid)*10^digits.
		assert.Equal(t, `{"symbol":"GBPJPY","bid":150.25,"ask":150.75,"spread":50,"digits":2,"time":1700000300}`, string(buf[:n]))
		assert.Equal(t, 1, mgr.Releases)
	})

	t.Run("static info fallback", func(t *testing.T) {
		s, mgr := initialized(t, true)
		buf := make([]byte, 256)

		n, err := s.GetQuote("EURUSD", buf)
		require.NoError(t, err)
		out := string(buf[:n])
		assert.Contains(t, out, `"bid":1.1011`)
		assert.Contains(t, out, `"ask":1.1013`)
		assert.Contains(t, out, `"spread":2`)
		assert.Equal(t, 1, mgr.Releases)
	})

	t.Run("zero-priced updated entry falls through", func(t *testing.T) {
		s, mgr := initialized(t, true)
		mgr.Updated = []mt4.SymbolInfo{{Symbol: "EURUSD"}}
		buf := make([]byte, 256)

		n, err := s.GetQuote("EURUSD", buf)
		require.NoError(t, err)
		assert.Contains(t, string(buf[:n]), `"bid":1.1011`)
	})

	t.Run("no source at all", func(t *testing.T) {
		s, mgr := initialized(t, true)
		buf := make([]byte, 256)

		_, err := s.GetQuote("XAUUSD", buf)
		assert.Equal(t, StatusInternal, StatusOf(err))
		assert.Equal(t, "No price data available for symbol", s.LastError())
		assert.Equal(t, 1, mgr.Releases)
	})

	t.Run("buffer too small on the tick path releases once", func(t *testing.T) {
		s, mgr := initialized(t, true)
		mgr.Infos["GBPJPY"] = mt4.SymbolInfo{Symbol: "GBPJPY", Digits: 2}
		mgr.Ticks["GBPJPY"] = []mt4.TickInfo{{Symbol: "GBPJPY", Bid: 150.0, Ask: 150.25, Ctm: 1}}
		buf := make([]byte, 8)

		_, err := s.GetQuote("GBPJPY", buf)
		assert.Equal(t, StatusBufferTooSmall, StatusOf(err))
		assert.Equal(t, 1, mgr.Releases)
	})

	t.Run("empty symbol", func(t *testing.T) {
		s, _ := initialized(t, true)
		buf := make([]byte, 256)
		_, err := s.GetQuote("", buf)
		assert.Equal(t, StatusInvalidParameter, StatusOf(err))
	})
}
