package cache

import "testing"

func TestCache_PutThenGet_Roundtrips(t *testing.T) {
	c := New()
	c.Load("var x = 1;")
	c.Put("fold-binary", "1+1", Entry{Sandbox: 2})

	e, ok := c.Get("fold-binary", "1+1")
	if !ok {
		t.Fatalf("expected a hit")
	}
	if e.Sandbox != 2 {
		t.Fatalf("expected stored value 2, got %v", e.Sandbox)
	}
}

func TestCache_Load_NewScriptClearsEntries(t *testing.T) {
	c := New()
	c.Load("var x = 1;")
	c.Put("rule", "frag", Entry{Sandbox: "v"})

	c.Load("var y = 2;")
	if _, ok := c.Get("rule", "frag"); ok {
		t.Fatalf("expected loading a different script to clear the cache")
	}
}

func TestCache_Load_SameScriptTwice_KeepsEntries(t *testing.T) {
	c := New()
	c.Load("var x = 1;")
	c.Put("rule", "frag", Entry{Sandbox: "v"})

	c.Load("var x = 1;")
	if _, ok := c.Get("rule", "frag"); !ok {
		t.Fatalf("expected reloading the same script to keep entries")
	}
}

func TestCache_Put_OverCapacity_FlushesWholeCache(t *testing.T) {
	c := New()
	c.Load("s")
	for i := 0; i < MaxEntries; i++ {
		c.Put("rule", string(rune('a'+i%26))+string(rune(i)), Entry{Sandbox: i})
	}
	if c.Len() != MaxEntries {
		t.Fatalf("expected exactly %d entries, got %d", MaxEntries, c.Len())
	}

	c.Put("rule", "one-more-fragment", Entry{Sandbox: "overflow"})
	if c.Len() != 1 {
		t.Fatalf("expected the cache to flush down to the one new entry, got %d", c.Len())
	}
}
