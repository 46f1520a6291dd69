package cache

import (
	"testing"
	"time"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

func TestMemory_PutGet(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	r := models.NewQueryResult([]string{"A"}, [][]any{{1}})

	if _, ok := c.Get("k"); ok {
		t.Fatal("Get() on empty cache should miss")
	}

	c.Put("k", r, 0)
	got, ok := c.Get("k")
	if !ok || got != r {
		t.Fatalf("Get() = %v, %v; want stored result", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory(time.Minute, 0)
	c.Put("k", models.NewQueryResult(nil, nil), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() should miss after ttl elapsed")
	}
}

func TestMemory_Flush(t *testing.T) {
	c := NewMemory(0, 0)
	c.Put("a", models.NewQueryResult(nil, nil), 0)
	c.Put("b", models.NewQueryResult(nil, nil), 0)

	c.Flush()

	if c.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", c.Len())
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Put("k", models.NewQueryResult(nil, nil), time.Hour)
	if _, ok := c.Get("k"); ok {
		t.Error("Nop cache should never hit")
	}
	c.Flush()
}
