package mt4

// Trade command codes as used by the manager interface.
const (
	OpBuy  = 0
	OpSell = 1
)

// Trade transaction types.
const (
	TransOrderOpen    = 64
	TransOrderCloseBy = 66
)

// MaxUpdatedSymbols is the size of the snapshot window requested from the
// updated-symbols feed.
const MaxUpdatedSymbols = 128

// Fixed text-field widths of the manager record structs. String fields longer
// than the width are truncated on write, never overflowed.
const (
	GroupWidth       = 16
	PasswordWidth    = 16
	NameWidth        = 128
	EmailWidth       = 48
	SymbolWidth      = 12
	DescriptionWidth = 64
	CurrencyWidth    = 12
	CommentWidth     = 32
)

// UserRecord is a transient copy of one trading account.
type UserRecord struct {
	Login                int
	Group                string
	Password             string
	Name                 string
	Email                string
	Enable               int
	EnableChangePassword int
	Leverage             int
	Balance              float64
	Credit               float64
}

// TradeRecord is a transient copy of one order. Volume is in integer
// hundredths of a lot.
type TradeRecord struct {
	Order      int
	Login      int
	Symbol     string
	Volume     int
	Cmd        int
	OpenPrice  float64
	SL         float64
	TP         float64
	Profit     float64
	ClosePrice float64
	Comment    string
}

// SymbolRecord is a transient copy of one instrument configuration.
type SymbolRecord struct {
	Symbol       string
	Description  string
	Digits       int
	ContractSize float64
	Currency     string
	Type         int
}

// SymbolInfo is a price snapshot from the symbol feed.
type SymbolInfo struct {
	Symbol   string
	Bid      float64
	Ask      float64
	Spread   int
	Digits   int
	LastTime int64
}

// TickInfo is one tick from the last-ticks feed. Ctm is the server timestamp.
type TickInfo struct {
	Symbol string
	Bid    float64
	Ask    float64
	Ctm    int64
}

// TradeTransInfo describes one trade transaction request. On a successful
// open the manager fills Order with the assigned ticket.
type TradeTransInfo struct {
	Type    int
	Cmd     int
	Order   int
	OrderBy int
	Symbol  string
	Volume  int
	Price   float64
	SL      float64
	TP      float64
	Comment string
}

// Truncate clips s to the given record field width.
func Truncate(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s
}
