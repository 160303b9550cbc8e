package gate

import (
	"strconv"

	"github.com/finbridge/mt4-gateway/internal/fields"
	"github.com/finbridge/mt4-gateway/internal/mt4"
	"github.com/finbridge/mt4-gateway/internal/render"
)

// free invokes a record release func. Deferred at acquisition so remote-owned
// memory is returned exactly once on every exit path.
func free(release mt4.ReleaseFunc) {
	if release != nil {
		release()
	}
}

// emit maps a short buffer onto the gateway taxonomy.
func emit(buf []byte, text string) (int, error) {
	n, err := render.Emit(buf, text)
	if err != nil {
		return 0, &Error{Status: StatusBufferTooSmall, Msg: "Buffer too small"}
	}
	return n, nil
}

// GetAccount writes the full record of one trading account into buf and
// returns the number of bytes written.
func (s *Session) GetAccount(login int, buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("get_account", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if len(buf) == 0 {
		return 0, s.done("get_account", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid buffer parameter"})
	}

	n := 0
	err := guard("Unknown error", func() error {
		users, release, rerr := s.manager.UserRecordsRequest([]int{login})
		defer free(release)

		if rerr != nil || len(users) == 0 {
			return &Error{Status: StatusInternal, Msg: "User not found"}
		}
		var eerr error
		n, eerr = emit(buf, render.Account(users[0]))
		return eerr
	})
	return n, s.done("get_account", strconv.Itoa(login), err)
}

// ListAccounts writes the capped account summary array into buf. An empty or
// unavailable result set is the literal empty array, which is a success.
func (s *Session) ListAccounts(buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("list_accounts", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if len(buf) == 0 {
		return 0, s.done("list_accounts", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid buffer parameter"})
	}

	n := 0
	err := guard("Unknown error", func() error {
		users, release, rerr := s.manager.UsersRequest()
		defer free(release)

		if rerr != nil {
			users = nil
		}
		var eerr error
		n, eerr = emit(buf, render.AccountList(users))
		return eerr
	})
	return n, s.done("list_accounts", "", err)
}

// CreateAccount extracts login, password, group and name from fieldsText,
// applies the fixed new-account defaults, and creates the account. The
// response written to buf carries the assigned login.
func (s *Session) CreateAccount(fieldsText string, buf []byte) (int, error) {
	if s.notReady() {
		return 0, s.done("create_account", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if fieldsText == "" || len(buf) == 0 {
		return 0, s.done("create_account", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid parameters"})
	}
	if !s.IsConnected() {
		return 0, s.done("create_account", "", &Error{Status: StatusNotConnected, Msg: "Not connected"})
	}

	n := 0
	err := guard("Unknown error creating user", func() error {
		var user mt4.UserRecord
		if v, ok := fields.Int(fieldsText, "login"); ok {
			user.Login = v
		}
		if v, ok := fields.Str(fieldsText, "password", mt4.PasswordWidth); ok {
			user.Password = v
		}
		if v, ok := fields.Str(fieldsText, "group", mt4.GroupWidth); ok {
			user.Group = v
		}
		if v, ok := fields.Str(fieldsText, "name", mt4.NameWidth); ok {
			user.Name = v
		}

		// Fixed defaults, not overridable by the input.
		user.Enable = 1
		user.EnableChangePassword = 1
		user.Leverage = 100

		if cerr := s.manager.UserRecordNew(&user); cerr != nil {
			return &Error{Status: StatusInternal, Msg: remoteMsg(cerr, "Failed to create user")}
		}
		var eerr error
		n, eerr = emit(buf, render.Created(user.Login))
		return eerr
	})
	return n, s.done("create_account", "", err)
}

// UpdateAccount fetches the existing record and rewrites only the name, email
// and group fields present in fieldsText. The account identity is never
// touched by the extractor.
func (s *Session) UpdateAccount(login int, fieldsText string) error {
	if s.notReady() {
		return s.done("update_account", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if fieldsText == "" {
		return s.done("update_account", "", &Error{Status: StatusInvalidParameter, Msg: "Invalid parameters"})
	}
	if !s.IsConnected() {
		return s.done("update_account", "", &Error{Status: StatusNotConnected, Msg: "Not connected"})
	}

	err := guard("Unknown error updating user", func() error {
		user, gerr := s.manager.UserRecordGet(login)
		if gerr != nil {
			return &Error{Status: StatusInternal, Msg: "User not found"}
		}

		if v, ok := fields.Str(fieldsText, "name", mt4.NameWidth); ok {
			user.Name = v
		}
		if v, ok := fields.Str(fieldsText, "email", mt4.EmailWidth); ok {
			user.Email = v
		}
		if v, ok := fields.Str(fieldsText, "group", mt4.GroupWidth); ok {
			user.Group = v
		}

		if uerr := s.manager.UserRecordUpdate(&user); uerr != nil {
			return &Error{Status: StatusInternal, Msg: remoteMsg(uerr, "Failed to update user")}
		}
		return nil
	})
	return s.done("update_account", strconv.Itoa(login), err)
}

// DisableAccount is the soft delete: the manager interface has no hard
// delete, so the account is fetched and its enable flag cleared.
func (s *Session) DisableAccount(login int) error {
	if s.notReady() {
		return s.done("disable_account", "", &Error{Status: StatusNotInitialized, Msg: "Not initialized"})
	}
	if !s.IsConnected() {
		return s.done("disable_account", "", &Error{Status: StatusNotConnected, Msg: "Not connected"})
	}

	err := guard("Unknown error deleting user", func() error {
		user, gerr := s.manager.UserRecordGet(login)
		if gerr != nil {
			return &Error{Status: StatusInternal, Msg: "User not found"}
		}

		user.Enable = 0
		if uerr := s.manager.UserRecordUpdate(&user); uerr != nil {
			return &Error{Status: StatusInternal, Msg: remoteMsg(uerr, "Failed to disable user")}
		}
		return nil
	})
	return s.done("disable_account", strconv.Itoa(login), err)
}
