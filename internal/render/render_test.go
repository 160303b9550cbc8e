package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbridge/mt4-gateway/internal/mt4"
)

func TestEmitBounds(t *testing.T) {
	t.Run("fits with terminator headroom", func(t *testing.T) {
		buf := make([]byte, 6)
		n, err := Emit(buf, "hello")
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", string(buf[:n]))
	})

	t.Run("length equal to capacity is refused", func(t *testing.T) {
		buf := []byte("XXXXX")
		_, err := Emit(buf, "hello")
		require.ErrorIs(t, err, ErrShort)
		assert.Equal(t, "XXXXX", string(buf), "buffer must not be touched on refusal")
	})

	t.Run("length above capacity is refused", func(t *testing.T) {
		buf := make([]byte, 3)
		_, err := Emit(buf, "hello")
		require.ErrorIs(t, err, ErrShort)
	})
}

func TestAccount(t *testing.T) {
	u := mt4.UserRecord{
		Login: 1001, Name: "Alice Demo", Email: "alice@example.com",
		Balance: 10000, Credit: 250.5, Leverage: 100, Group: "demo",
	}
	text := Account(u)
	assert.Equal(t, `{"login":1001,"name":"Alice Demo","email":"alice@example.com","balance":10000,"credit":250.5,"leverage":100,"group":"demo"}`, text)
}

func TestAccountList(t *testing.T) {
	t.Run("empty set is the literal empty array", func(t *testing.T) {
		assert.Equal(t, "[]", AccountList(nil))
		assert.Equal(t, "[]", AccountList([]mt4.UserRecord{}))
	})

	t.Run("caps at 100 rows", func(t *testing.T) {
		users := make([]mt4.UserRecord, 150)
		for i := range users {
			users[i] = mt4.UserRecord{Login: 1000 + i, Name: fmt.Sprintf("u%d", i)}
		}
		text := AccountList(users)
		assert.Equal(t, MaxAccounts, strings.Count(text, `"login"`))
		assert.NotContains(t, text, `"login":1100`)
	})

	t.Run("summary shape", func(t *testing.T) {
		text := AccountList([]mt4.UserRecord{{Login: 7, Name: "x", Balance: 1.5}})
		assert.Equal(t, `[{"login":7,"name":"x","balance":1.5}]`, text)
	})
}

func TestOrderList(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Equal(t, "[]", OrderList(nil))
	})

	t.Run("caps at 100 rows", func(t *testing.T) {
		trades := make([]mt4.TradeRecord, 120)
		for i := range trades {
			trades[i] = mt4.TradeRecord{Order: i}
		}
		assert.Equal(t, MaxOrders, strings.Count(OrderList(trades), `"order"`))
	})

	t.Run("row shape", func(t *testing.T) {
		text := OrderList([]mt4.TradeRecord{{Order: 5001, Login: 1001, Symbol: "EURUSD", Volume: 150, Profit: -3.25}})
		assert.Equal(t, `[{"order":5001,"login":1001,"symbol":"EURUSD","volume":150,"profit":-3.25}]`, text)
	})
}

func TestInstrumentList(t *testing.T) {
	t.Run("caps at 50 rows", func(t *testing.T) {
		symbols := make([]mt4.SymbolRecord, 80)
		for i := range symbols {
			symbols[i] = mt4.SymbolRecord{Symbol: fmt.Sprintf("S%d", i)}
		}
		assert.Equal(t, MaxInstruments, strings.Count(InstrumentList(symbols), `"symbol"`))
	})

	t.Run("row shape", func(t *testing.T) {
		text := InstrumentList([]mt4.SymbolRecord{{
			Symbol: "EURUSD", Description: "Euro vs US Dollar", Digits: 5,
			ContractSize: 100000, Currency: "EUR", Type: 0,
		}})
		assert.Equal(t, `[{"symbol":"EURUSD","description":"Euro vs US Dollar","digits":5,"contractSize":100000,"currency":"EUR","type":0}]`, text)
	})
}

func TestQuote(t *testing.T) {
	text := Quote("EURUSD", 1.1011, 1.1013, 2, 5, 1700000000)
	assert.Equal(t, `{"symbol":"EURUSD","bid":1.1011,"ask":1.1013,"spread":2,"digits":5,"time":1700000000}`, text)
}

func TestTicketAndCreated(t *testing.T) {
	assert.Equal(t, `{"order":6000}`, Ticket(6000))
	assert.Equal(t, `{"success":true,"login":4242}`, Created(4242))
}
