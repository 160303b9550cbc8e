package fields

import "testing"

func TestInt(t *testing.T) {
	t.Run("simple value", func(t *testing.T) {
		v, ok := Int(`{"login":4242,"group":"demo"}`, "login")
		if !ok || v != 4242 {
			t.Errorf("Expected 4242, got %d (ok=%v)", v, ok)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := Int(`{"group":"demo"}`, "login")
		if ok {
			t.Error("Expected ok=false for missing key")
		}
	})

	t.Run("stops at first non-digit", func(t *testing.T) {
		v, ok := Int(`"login":123abc`, "login")
		if !ok || v != 123 {
			t.Errorf("Expected 123, got %d", v)
		}
	})

	t.Run("no digits yields zero", func(t *testing.T) {
		v, ok := Int(`"login":abc`, "login")
		if !ok || v != 0 {
			t.Errorf("Expected 0, got %d (ok=%v)", v, ok)
		}
	})

	t.Run("leading spaces and sign", func(t *testing.T) {
		v, ok := Int(`"leverage": -200`, "leverage")
		if !ok || v != -200 {
			t.Errorf("Expected -200, got %d", v)
		}
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		v, _ := Int(`"login":1,"login":2`, "login")
		if v != 1 {
			t.Errorf("Expected first match 1, got %d", v)
		}
	})
}

func TestStr(t *testing.T) {
	t.Run("simple value", func(t *testing.T) {
		v, ok := Str(`{"name":"Alice","group":"demo"}`, "name", 128)
		if !ok || v != "Alice" {
			t.Errorf("Expected Alice, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := Str(`{"name":"Alice"}`, "email", 48)
		if ok {
			t.Error("Expected ok=false for missing key")
		}
	})

	t.Run("numeric value does not match string marker", func(t *testing.T) {
		_, ok := Str(`{"login":4242}`, "login", 16)
		if ok {
			t.Error("Expected ok=false for non-string value")
		}
	})

	t.Run("no closing quote", func(t *testing.T) {
		_, ok := Str(`"name":"Alice`, "name", 128)
		if ok {
			t.Error("Expected ok=false for unterminated value")
		}
	})

	t.Run("truncates to width", func(t *testing.T) {
		v, ok := Str(`"group":"averylonggroupname"`, "group", 8)
		if !ok || v != "averylon" {
			t.Errorf("Expected truncated value, got %q", v)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		v, ok := Str(`"name":""`, "name", 128)
		if !ok || v != "" {
			t.Errorf("Expected empty value, got %q (ok=%v)", v, ok)
		}
	})
}
