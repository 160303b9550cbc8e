package gate

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/finbridge/mt4-gateway/internal/journal"
	"github.com/finbridge/mt4-gateway/internal/mt4"
	"github.com/finbridge/mt4-gateway/internal/utils"
)

// DefaultSettleDelay is applied before Connect; some manager builds need a
// moment between handle creation and the first connection attempt.
const DefaultSettleDelay = 100 * time.Millisecond

// Session owns one provider/manager pair and its lifecycle. It performs no
// internal locking: the embedding layer must serialize every call (one owner
// goroutine or an external mutex), including Shutdown.
type Session struct {
	network     mt4.Network
	newProvider func() mt4.Provider

	provider    mt4.Provider
	manager     mt4.Manager
	netUp       bool
	initialized bool
	lastErr     string

	journal journal.Journaler

	// SettleDelay is the pause applied before Connect. Tests set it to zero.
	SettleDelay time.Duration
}

// NewSession builds an uninitialized session. jrnl may be nil to disable the
// operation journal.
func NewSession(network mt4.Network, newProvider func() mt4.Provider, jrnl journal.Journaler) *Session {
	return &Session{
		network:     network,
		newProvider: newProvider,
		journal:     jrnl,
		SettleDelay: DefaultSettleDelay,
	}
}

// guard runs fn converting panics into internal errors. A panic value that is
// itself an error keeps its message, anything else gets the fallback text.
func guard(fallback string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			msg := fallback
			if e, ok := r.(error); ok && e.Error() != "" {
				msg = e.Error()
			}
			err = &Error{Status: StatusInternal, Msg: msg}
		}
	}()
	return fn()
}

// remoteMsg prefers the description the remote layer reported explicitly.
func remoteMsg(err error, fallback string) string {
	var se *mt4.ServerError
	if errors.As(err, &se) && se.Desc != "" {
		return se.Desc
	}
	return fallback
}

// done records the outcome of op: rewrites the last-error text (empty on
// success), journals the entry, and hands err back to the caller.
func (s *Session) done(op, detail string, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.lastErr = msg
	s.record(op, detail, StatusOf(err), msg)
	return err
}

func (s *Session) record(op, detail string, st Status, msg string) {
	if st != OK {
		utils.GetLogger().Printf("Gate | %s failed (%d): %s", op, int(st), msg)
	}
	if s.journal == nil {
		return
	}
	e := journal.Entry{
		Time:    time.Now().UTC(),
		Op:      op,
		Detail:  detail,
		Status:  int(st),
		ErrText: msg,
	}
	if jerr := s.journal.LogOperation(context.Background(), e); jerr != nil {
		utils.GetLogger().Printf("Gate | journal write failed: %v", jerr)
	}
}

// notReady reports the session as unusable for remote operations.
func (s *Session) notReady() bool {
	return !s.initialized || s.manager == nil
}

// LastError returns the text recorded by the most recent operation. Empty
// after a success.
func (s *Session) LastError() string { return s.lastErr }

// Initialized reports whether Initialize succeeded without a later Shutdown.
func (s *Session) Initialized() bool { return s.initialized }

// Initialize acquires, in order: network subsystem, provider, manager handle.
// Any failure rolls back everything already acquired before returning, so the
// session is never left partially constructed.
func (s *Session) Initialize() error {
	if s.initialized {
		return s.done("initialize", "", &Error{Status: StatusAlreadyInitialized, Msg: "Already initialized"})
	}

	err := guard("Unknown error during initialization", func() error {
		if err := s.network.Startup(); err != nil {
			return &Error{Status: StatusInternal, Msg: "Failed to initialize network subsystem"}
		}
		s.netUp = true

		p := s.newProvider()
		s.provider = p
		if !p.Valid() {
			return &Error{Status: StatusInternal, Msg: "Failed to load manager implementation"}
		}
		p.NetStartup()

		m, err := p.Create()
		if err != nil || m == nil {
			return &Error{Status: StatusInternal, Msg: "Failed to create manager instance"}
		}
		s.manager = m
		return nil
	})
	if err != nil {
		s.rollback()
		return s.done("initialize", "", err)
	}

	s.initialized = true
	return s.done("initialize", "", nil)
}

// rollback tears down whatever Initialize acquired, in reverse order.
func (s *Session) rollback() {
	if s.manager != nil {
		func() {
			defer func() { recover() }()
			s.manager.Release()
		}()
		s.manager = nil
	}
	if s.provider != nil {
		s.provider.Destroy()
		s.provider = nil
	}
	if s.netUp {
		s.network.Cleanup()
		s.netUp = false
	}
}

// Shutdown releases the manager handle first, then the provider, then the
// network subsystem. Releasing the provider while a handle is live is
// undefined in the manager library, so the order here is fixed. Safe to call
// repeatedly and after a failed Initialize.
func (s *Session) Shutdown() {
	if s.manager != nil {
		func() {
			defer func() { recover() }()
			s.manager.Release()
		}()
		s.manager = nil
	}
	if s.provider != nil {
		s.provider.NetCleanup()
		s.provider.Destroy()
		s.provider = nil
	}
	s.initialized = false
	s.lastErr = ""
	if s.netUp {
		s.network.Cleanup()
		s.netUp = false
	}
	s.record("shutdown", "", OK, "")
}

// Connect hands the working directory to the manager, waits the settle delay,
// and dials the trading server.
func (s *Session) Connect(server string) error {
	if s.notReady() {
		return s.done("connect", server, &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if server == "" {
		return s.done("connect", server, &Error{Status: StatusInvalidParameter, Msg: "Invalid server parameter"})
	}

	err := guard("Unknown error during connection", func() error {
		// Some manager builds need the working directory before Connect.
		if dir, derr := os.Getwd(); derr == nil {
			s.manager.WorkingDirectory(dir)
		}
		time.Sleep(s.SettleDelay)

		if cerr := s.manager.Connect(server); cerr != nil {
			return &Error{Status: StatusConnectionFailed, Msg: remoteMsg(cerr, "Connection failed")}
		}
		return nil
	})
	return s.done("connect", server, err)
}

// Login authenticates the manager account. Legal before or after Connect;
// the remote side decides.
func (s *Session) Login(login int, password string) error {
	if s.notReady() {
		return s.done("login", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if password == "" {
		return s.done("login", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid password parameter"})
	}

	err := guard("Unknown error during login", func() error {
		if lerr := s.manager.Login(login, password); lerr != nil {
			return &Error{Status: StatusLoginFailed, Msg: remoteMsg(lerr, "Login failed")}
		}
		return nil
	})
	return s.done("login", "", err)
}

// Disconnect drops the server connection. The last-error text is cleared even
// when the remote reports a non-OK status; only a native fault writes it.
func (s *Session) Disconnect() error {
	if s.notReady() {
		return s.done("disconnect", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}

	var remoteFailed bool
	err := guard("Error during disconnect", func() error {
		if derr := s.manager.Disconnect(); derr != nil {
			remoteFailed = true
		}
		return nil
	})
	if err != nil {
		return s.done("disconnect", "", err)
	}

	s.lastErr = ""
	if remoteFailed {
		s.record("disconnect", "", StatusInternal, "")
		return &Error{Status: StatusInternal}
	}
	s.record("disconnect", "", OK, "")
	return nil
}

// IsConnected never fails: any uninitialized state, absent handle, or remote
// fault reads as false. Every connected-only operation runs this first.
func (s *Session) IsConnected() bool {
	if s.notReady() {
		return false
	}
	connected := false
	guard("", func() error {
		connected = s.manager.IsConnected()
		return nil
	})
	return connected
}

// Ping checks the server round trip. Requires a live connection.
func (s *Session) Ping() error {
	if s.notReady() {
		return s.done("ping", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if !s.IsConnected() {
		return s.done("ping", "", &Error{Status: StatusNotConnected, Msg: "Not connected"})
	}

	err := guard("Error during ping", func() error {
		if perr := s.manager.Ping(); perr != nil {
			return &Error{Status: StatusInternal, Msg: remoteMsg(perr, "Ping failed")}
		}
		return nil
	})
	return s.done("ping", "", err)
}
