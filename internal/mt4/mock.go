package mt4

import (
	"time"
)

// MockNetwork is an in-process stand-in for the network subsystem.
type MockNetwork struct {
	StartupErr error
	Startups   int
	Cleanups   int
}

func (n *MockNetwork) Startup() error {
	n.Startups++
	return n.StartupErr
}

func (n *MockNetwork) Cleanup() { n.Cleanups++ }

// MockProvider is an in-process provider used when no real manager library is
// available (bypass mode) and by the façade tests.
type MockProvider struct {
	Invalid    bool
	CreateErr  error
	CreatePanic bool
	Destroyed  int
	Manager    *MockManager
}

// NewMockProvider returns a provider whose manager is seeded with a small
// book of accounts, orders, symbols and ticks.
func NewMockProvider() *MockProvider {
	return &MockProvider{Manager: NewMockManager()}
}

func (p *MockProvider) Valid() bool  { return !p.Invalid }
func (p *MockProvider) NetStartup()  {}
func (p *MockProvider) NetCleanup()  {}
func (p *MockProvider) Destroy()     { p.Destroyed++ }

func (p *MockProvider) Create() (Manager, error) {
	if p.CreatePanic {
		panic("mock provider: create fault")
	}
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	if p.Manager == nil {
		p.Manager = NewMockManager()
	}
	return p.Manager, nil
}

// MockManager implements Manager against in-memory state. Fail injects an
// error for the named operation, PanicOn makes it panic instead; Releases
// counts release-func invocations so tests can assert the exactly-once
// contract.
type MockManager struct {
	Connected bool
	WorkDir   string
	Released  int
	Releases  int

	Fail    map[string]error
	PanicOn map[string]bool

	Users      []UserRecord
	Trades     []TradeRecord
	Symbols    []SymbolRecord
	Updated    []SymbolInfo
	Infos      map[string]SymbolInfo
	Ticks      map[string][]TickInfo
	NextTicket int

	Transactions []TradeTransInfo
}

func NewMockManager() *MockManager {
	return &MockManager{
		Fail:    make(map[string]error),
		PanicOn: make(map[string]bool),
		Users: []UserRecord{
			{Login: 1001, Group: "demo", Name: "Alice Demo", Email: "alice@example.com", Enable: 1, EnableChangePassword: 1, Leverage: 100, Balance: 10000, Credit: 0},
			{Login: 1002, Group: "real", Name: "Bob Real", Email: "bob@example.com", Enable: 1, EnableChangePassword: 1, Leverage: 200, Balance: 2500.5, Credit: 100},
		},
		Trades: []TradeRecord{
			{Order: 5001, Login: 1001, Symbol: "EURUSD", Volume: 100, Cmd: OpBuy, OpenPrice: 1.1, SL: 1.05, TP: 1.2, Profit: 12.5, ClosePrice: 1.1125},
			{Order: 5002, Login: 1002, Symbol: "GBPUSD", Volume: 50, Cmd: OpSell, OpenPrice: 1.3, Profit: -3.25, ClosePrice: 1.3065},
		},
		Symbols: []SymbolRecord{
			{Symbol: "EURUSD", Description: "Euro vs US Dollar", Digits: 5, ContractSize: 100000, Currency: "EUR", Type: 0},
			{Symbol: "GBPUSD", Description: "Pound vs US Dollar", Digits: 5, ContractSize: 100000, Currency: "GBP", Type: 0},
		},
		Infos: map[string]SymbolInfo{
			"EURUSD": {Symbol: "EURUSD", Bid: 1.1011, Ask: 1.1013, Spread: 2, Digits: 5, LastTime: 1700000000},
		},
		Ticks:      make(map[string][]TickInfo),
		NextTicket: 6000,
	}
}

func (m *MockManager) step(op string) error {
	if m.PanicOn[op] {
		panic("mock manager: " + op + " fault")
	}
	return m.Fail[op]
}

func (m *MockManager) release() ReleaseFunc {
	return func() { m.Releases++ }
}

func (m *MockManager) Connect(addr string) error {
	if err := m.step("Connect"); err != nil {
		return err
	}
	m.Connected = true
	return nil
}

func (m *MockManager) Login(login int, password string) error {
	if err := m.step("Login"); err != nil {
		return err
	}
	return nil
}

func (m *MockManager) Disconnect() error {
	if err := m.step("Disconnect"); err != nil {
		return err
	}
	m.Connected = false
	return nil
}

func (m *MockManager) IsConnected() bool {
	if m.PanicOn["IsConnected"] {
		panic("mock manager: IsConnected fault")
	}
	return m.Connected
}

func (m *MockManager) Ping() error { return m.step("Ping") }

func (m *MockManager) WorkingDirectory(path string) { m.WorkDir = path }

func (m *MockManager) UserRecordsRequest(logins []int) ([]UserRecord, ReleaseFunc, error) {
	if err := m.step("UserRecordsRequest"); err != nil {
		return nil, m.release(), err
	}
	var out []UserRecord
	for _, login := range logins {
		for _, u := range m.Users {
			if u.Login == login {
				out = append(out, u)
			}
		}
	}
	return out, m.release(), nil
}

func (m *MockManager) UsersRequest() ([]UserRecord, ReleaseFunc, error) {
	if err := m.step("UsersRequest"); err != nil {
		return nil, m.release(), err
	}
	out := make([]UserRecord, len(m.Users))
	copy(out, m.Users)
	return out, m.release(), nil
}

func (m *MockManager) UserRecordGet(login int) (UserRecord, error) {
	if err := m.step("UserRecordGet"); err != nil {
		return UserRecord{}, err
	}
	for _, u := range m.Users {
		if u.Login == login {
			return u, nil
		}
	}
	return UserRecord{}, &ServerError{Code: 13, Desc: "no record"}
}

func (m *MockManager) UserRecordNew(user *UserRecord) error {
	if err := m.step("UserRecordNew"); err != nil {
		return err
	}
	m.Users = append(m.Users, *user)
	return nil
}

func (m *MockManager) UserRecordUpdate(user *UserRecord) error {
	if err := m.step("UserRecordUpdate"); err != nil {
		return err
	}
	for i := range m.Users {
		if m.Users[i].Login == user.Login {
			m.Users[i] = *user
			return nil
		}
	}
	return &ServerError{Code: 13, Desc: "no record"}
}

func (m *MockManager) TradesRequest() ([]TradeRecord, ReleaseFunc, error) {
	if err := m.step("TradesRequest"); err != nil {
		return nil, m.release(), err
	}
	out := make([]TradeRecord, len(m.Trades))
	copy(out, m.Trades)
	return out, m.release(), nil
}

func (m *MockManager) TradesUserHistory(login int, from, to int64) ([]TradeRecord, ReleaseFunc, error) {
	if err := m.step("TradesUserHistory"); err != nil {
		return nil, m.release(), err
	}
	var out []TradeRecord
	for _, t := range m.Trades {
		if t.Login == login {
			out = append(out, t)
		}
	}
	return out, m.release(), nil
}

func (m *MockManager) TradeRecordGet(order int) (TradeRecord, error) {
	if err := m.step("TradeRecordGet"); err != nil {
		return TradeRecord{}, err
	}
	for _, t := range m.Trades {
		if t.Order == order {
			return t, nil
		}
	}
	return TradeRecord{}, &ServerError{Code: 13, Desc: "no record"}
}

func (m *MockManager) TradeTransaction(trans *TradeTransInfo) error {
	if err := m.step("TradeTransaction"); err != nil {
		return err
	}
	m.Transactions = append(m.Transactions, *trans)
	if trans.Type != TransOrderCloseBy {
		trans.Order = m.NextTicket
		m.NextTicket++
		m.Trades = append(m.Trades, TradeRecord{
			Order:     trans.Order,
			Symbol:    trans.Symbol,
			Volume:    trans.Volume,
			Cmd:       trans.Cmd,
			OpenPrice: trans.Price,
			SL:        trans.SL,
			TP:        trans.TP,
			Comment:   trans.Comment,
		})
	}
	return nil
}

func (m *MockManager) SymbolsRefresh() error { return m.step("SymbolsRefresh") }

func (m *MockManager) SymbolsGetAll() ([]SymbolRecord, ReleaseFunc, error) {
	if err := m.step("SymbolsGetAll"); err != nil {
		return nil, m.release(), err
	}
	out := make([]SymbolRecord, len(m.Symbols))
	copy(out, m.Symbols)
	return out, m.release(), nil
}

func (m *MockManager) SymbolInfoUpdated(max int) ([]SymbolInfo, error) {
	if err := m.step("SymbolInfoUpdated"); err != nil {
		return nil, err
	}
	if len(m.Updated) > max {
		return m.Updated[:max], nil
	}
	return m.Updated, nil
}

func (m *MockManager) SymbolInfoGet(symbol string) (SymbolInfo, error) {
	if err := m.step("SymbolInfoGet"); err != nil {
		return SymbolInfo{}, err
	}
	info, ok := m.Infos[symbol]
	if !ok {
		return SymbolInfo{}, &ServerError{Code: 13, Desc: "unknown symbol"}
	}
	return info, nil
}

func (m *MockManager) TickInfoLast(symbol string) ([]TickInfo, ReleaseFunc, error) {
	if err := m.step("TickInfoLast"); err != nil {
		return nil, m.release(), err
	}
	ticks := m.Ticks[symbol]
	out := make([]TickInfo, len(ticks))
	copy(out, ticks)
	return out, m.release(), nil
}

func (m *MockManager) Release() { m.Released++ }

// AddTick appends a tick with the current time for symbol.
func (m *MockManager) AddTick(symbol string, bid, ask float64) {
	m.Ticks[symbol] = append(m.Ticks[symbol], TickInfo{
		Symbol: symbol,
		Bid:    bid,
		Ask:    ask,
		Ctm:    time.Now().Unix(),
	})
}
