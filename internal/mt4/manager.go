// Package mt4 defines the boundary to the MT4 manager library: the network
// subsystem, the provider that loads the backing implementation, and the
// Manager capability handle, plus the record types that cross it.
package mt4

import "fmt"

// ServerError is a non-OK return from the manager interface. Code is the raw
// manager return code, Desc the description the manager supplied for it.
type ServerError struct {
	Code int
	Desc string
}

func (e *ServerError) Error() string {
	if e.Desc != "" {
		return e.Desc
	}
	return fmt.Sprintf("manager error %d", e.Code)
}

// Network is the process-wide network subsystem bracketing the whole session
// lifetime. Startup is called once before the provider is constructed and
// Cleanup once after it is destroyed.
type Network interface {
	Startup() error
	Cleanup()
}

// HostNetwork is the no-op network subsystem for platforms whose runtime
// manages socket state itself.
type HostNetwork struct{}

func (HostNetwork) Startup() error { return nil }
func (HostNetwork) Cleanup()       {}

// Provider loads the backing manager implementation and constructs Manager
// handles from it. A Provider must stay alive for as long as any Manager it
// created: the handle holds resources owned by the provider, so teardown is
// always Manager.Release before Provider.Destroy.
type Provider interface {
	// Valid reports whether the backing implementation loaded.
	Valid() bool
	NetStartup()
	NetCleanup()
	Create() (Manager, error)
	Destroy()
}

// ReleaseFunc frees remote-owned record memory. It must be called exactly
// once per record request, on both the success and failure path.
type ReleaseFunc func()

// Manager is the opaque capability handle over the remote trading server.
// Record-request methods return a ReleaseFunc for the remote-owned result
// memory. Remote failures are reported as *ServerError; implementations are
// allowed to panic on native faults, callers contain that.
type Manager interface {
	Connect(addr string) error
	Login(login int, password string) error
	Disconnect() error
	IsConnected() bool
	Ping() error

	// WorkingDirectory hands the process working directory to the backing
	// implementation; some manager builds require it before Connect.
	WorkingDirectory(path string)

	UserRecordsRequest(logins []int) ([]UserRecord, ReleaseFunc, error)
	UsersRequest() ([]UserRecord, ReleaseFunc, error)
	UserRecordGet(login int) (UserRecord, error)
	UserRecordNew(user *UserRecord) error
	UserRecordUpdate(user *UserRecord) error

	TradesRequest() ([]TradeRecord, ReleaseFunc, error)
	TradesUserHistory(login int, from, to int64) ([]TradeRecord, ReleaseFunc, error)
	TradeRecordGet(order int) (TradeRecord, error)
	TradeTransaction(trans *TradeTransInfo) error

	SymbolsRefresh() error
	SymbolsGetAll() ([]SymbolRecord, ReleaseFunc, error)
	SymbolInfoUpdated(max int) ([]SymbolInfo, error)
	SymbolInfoGet(symbol string) (SymbolInfo, error)
	TickInfoLast(symbol string) ([]TickInfo, ReleaseFunc, error)

	Release()
}
