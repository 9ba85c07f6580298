package cache

import (
	"testing"
	"time"
)

func TestNewCache(t *testing.T) {
	c := NewCache()
	if c == nil {
		t.Fatal("NewCache returned nil")
	}
}

func TestGetInstance(t *testing.T) {
	inst := GetInstance()
	if inst == nil {
		t.Fatal("GetInstance returned nil")
	}
	if GetInstance() != inst {
		t.Error("GetInstance should return same instance")
	}
}

func TestSet_Get(t *testing.T) {
	c := GetInstance()
	key := "test-set-get"
	c.Set(key, "val", 0, nil)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get: want true")
	}
	if got != "val" {
		t.Errorf("Get = %v, want val", got)
	}
	c.Delete(key)
}

func TestGet_Missing(t *testing.T) {
	c := GetInstance()
	_, ok := c.Get("nonexistent-key-xyz")
	if ok {
		t.Error("Get missing key: want false")
	}
}

func TestDelete(t *testing.T) {
	c := GetInstance()
	key := "test-delete"
	c.Set(key, "x", 0, nil)
	c.Delete(key)
	_, ok := c.Get(key)
	if ok {
		t.Error("Delete: key should be gone")
	}
}

func TestSet_TTLExpires(t *testing.T) {
	c := NewCache()
	c.Set("ttl-key", "v", 1, nil)
	if _, ok := c.Get("ttl-key"); !ok {
		t.Fatal("fresh entry should be present")
	}
	time.Sleep(1100 * time.Millisecond)
	if _, ok := c.Get("ttl-key"); ok {
		t.Error("expired entry should be gone")
	}
}

func TestSetN_GetN_DeleteN(t *testing.T) {
	c := GetInstance()
	c.SetN([]interface{}{"a", "b"}, "composite-val", 0, nil)
	got, ok := c.GetN("a", "b")
	if !ok || got != "composite-val" {
		t.Errorf("GetN = %v, %v; want composite-val, true", got, ok)
	}
	c.DeleteN("a", "b")
	_, ok = c.GetN("a", "b")
	if ok {
		t.Error("DeleteN: key should be gone")
	}
}

func TestTagKey_GetKeysByTag_DeleteByTag(t *testing.T) {
	c := NewCache()
	c.Set("stock:all", "v1", 0, []string{"stock"})
	c.Set("stock:low", "v2", 0, []string{"stock"})
	c.Set("other", "v3", 0, []string{"other"})

	keys := c.GetKeysByTag("stock")
	if len(keys) != 2 {
		t.Fatalf("GetKeysByTag len = %d, want 2", len(keys))
	}

	c.DeleteByTag("stock")
	if _, ok := c.Get("stock:all"); ok {
		t.Error("tagged entry stock:all should be gone")
	}
	if _, ok := c.Get("stock:low"); ok {
		t.Error("tagged entry stock:low should be gone")
	}
	if _, ok := c.Get("other"); !ok {
		t.Error("entries under other tags must survive")
	}
	if keys := c.GetKeysByTag("stock"); len(keys) != 0 {
		t.Errorf("tag index not cleared: %v", keys)
	}
}
