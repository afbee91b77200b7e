package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(10, time.Minute)
	k := Key("https://getlatka.com/company/acme")

	if _, ok := c.Get(k); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set(k, "<html>acme</html>")
	html, ok := c.Get(k)
	if !ok || html != "<html>acme</html>" {
		t.Errorf("Get = %q, %v", html, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	k := Key("https://getlatka.com/company/acme")
	c.Set(k, "x")

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(k); ok {
		t.Error("expired entry should miss")
	}
}

func TestCache_CapacityBounded(t *testing.T) {
	c := New(3, time.Minute)
	for _, u := range []string{"a", "b", "c", "d", "e"} {
		c.Set(Key(u), u)
	}
	if n := len(c.store); n > 3 {
		t.Errorf("cache grew past capacity: %d entries", n)
	}
}

func TestKey_Deterministic(t *testing.T) {
	if Key("u") != Key("u") {
		t.Error("same URL should produce same key")
	}
	if Key("u1") == Key("u2") {
		t.Error("different URLs should produce different keys")
	}
}
