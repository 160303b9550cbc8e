// Package render turns manager records into compact JSON text bounded by a
// caller-supplied buffer. The full text is always built first; a result that
// does not fit (terminator headroom included) is refused outright, never
// truncated.
package render

import (
	"errors"
	"strconv"
	"strings"

	"github.com/finbridge/mt4-gateway/internal/mt4"
)

// Collection caps. Rows beyond the cap are dropped from the output; the call
// still succeeds.
const (
	MaxAccounts    = 100
	MaxOrders      = 100
	MaxInstruments = 50
)

// ErrShort reports that the serialized text does not fit the buffer.
var ErrShort = errors.New("buffer too small")

// Emit copies text into buf. The buffer must keep one byte of headroom for
// the host-side terminator, so len(text) >= len(buf) fails without touching
// buf. Returns the number of bytes written.
func Emit(buf []byte, text string) (int, error) {
	if len(text) >= len(buf) {
		return 0, ErrShort
	}
	return copy(buf, text), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Field values are interpolated directly; embedded quotes or control
// characters in string fields are not escaped. Known, accepted limitation of
// the wire form.

// Account renders the full single-account shape.
func Account(u mt4.UserRecord) string {
	var b strings.Builder
	b.WriteString(`{"login":`)
	b.WriteString(strconv.Itoa(u.Login))
	b.WriteString(`,"name":"`)
	b.WriteString(u.Name)
	b.WriteString(`","email":"`)
	b.WriteString(u.Email)
	b.WriteString(`","balance":`)
	b.WriteString(num(u.Balance))
	b.WriteString(`,"credit":`)
	b.WriteString(num(u.Credit))
	b.WriteString(`,"leverage":`)
	b.WriteString(strconv.Itoa(u.Leverage))
	b.WriteString(`,"group":"`)
	b.WriteString(u.Group)
	b.WriteString(`"}`)
	return b.String()
}

// AccountList renders the capped summary array (login, name, balance).
func AccountList(users []mt4.UserRecord) string {
	var b strings.Builder
	b.WriteString("[")
	for i, u := range users {
		if i >= MaxAccounts {
			break
		}
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"login":`)
		b.WriteString(strconv.Itoa(u.Login))
		b.WriteString(`,"name":"`)
		b.WriteString(u.Name)
		b.WriteString(`","balance":`)
		b.WriteString(num(u.Balance))
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}

// OrderList renders the capped order array (order, login, symbol, volume,
// profit).
func OrderList(trades []mt4.TradeRecord) string {
	var b strings.Builder
	b.WriteString("[")
	for i, t := range trades {
		if i >= MaxOrders {
			break
		}
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"order":`)
		b.WriteString(strconv.Itoa(t.Order))
		b.WriteString(`,"login":`)
		b.WriteString(strconv.Itoa(t.Login))
		b.WriteString(`,"symbol":"`)
		b.WriteString(t.Symbol)
		b.WriteString(`","volume":`)
		b.WriteString(strconv.Itoa(t.Volume))
		b.WriteString(`,"profit":`)
		b.WriteString(num(t.Profit))
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}

// InstrumentList renders the capped instrument array.
func InstrumentList(symbols []mt4.SymbolRecord) string {
	var b strings.Builder
	b.WriteString("[")
	for i, s := range symbols {
		if i >= MaxInstruments {
			break
		}
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"symbol":"`)
		b.WriteString(s.Symbol)
		b.WriteString(`","description":"`)
		b.WriteString(s.Description)
		b.WriteString(`","digits":`)
		b.WriteString(strconv.Itoa(s.Digits))
		b.WriteString(`,"contractSize":`)
		b.WriteString(num(s.ContractSize))
		b.WriteString(`,"currency":"`)
		b.WriteString(s.Currency)
		b.WriteString(`","type":`)
		b.WriteString(strconv.Itoa(s.Type))
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}

// Quote renders one price quote.
func Quote(symbol string, bid, ask float64, spread, digits int, ts int64) string {
	var b strings.Builder
	b.WriteString(`{"symbol":"`)
	b.WriteString(symbol)
	b.WriteString(`","bid":`)
	b.WriteString(num(bid))
	b.WriteString(`,"ask":`)
	b.WriteString(num(ask))
	b.WriteString(`,"spread":`)
	b.WriteString(strconv.Itoa(spread))
	b.WriteString(`,"digits":`)
	b.WriteString(strconv.Itoa(digits))
	b.WriteString(`,"time":`)
	b.WriteString(strconv.FormatInt(ts, 10))
	b.WriteString("}")
	return b.String()
}

// Ticket renders the order id assigned by an open transaction.
func Ticket(order int) string {
	return `{"order":` + strconv.Itoa(order) + `}`
}

// Created renders the create-account acknowledgement.
func Created(login int) string {
	return `{"success":true,"login":` + strconv.Itoa(login) + `}`
}
