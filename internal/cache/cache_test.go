package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(true)
	defer c.Close()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	etag := c.Set("career:larkin", []byte(`{"seasons":19}`), time.Minute)
	data, got, ok := c.Get("career:larkin")
	if !ok || string(data) != `{"seasons":19}` || got != etag {
		t.Fatalf("Get: ok=%v data=%s etag=%s", ok, data, got)
	}

	now = now.Add(2 * time.Minute)
	if _, _, ok := c.Get("career:larkin"); ok {
		t.Fatalf("expired entry returned")
	}
	if stats := c.Stats(); stats["expired_keys"] != 1 {
		t.Fatalf("stats: %v", stats)
	}
	c.evict()
	if stats := c.Stats(); stats["total_keys"] != 0 {
		t.Fatalf("evict left entries: %v", stats)
	}
}

func TestFlush(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("career:larkin", []byte("a"), time.Hour)
	c.Set("summary:42", []byte("b"), time.Hour)
	if n := c.Flush(); n != 2 {
		t.Fatalf("Flush removed %d, want 2", n)
	}
	if _, _, ok := c.Get("career:larkin"); ok {
		t.Fatal("entry survived flush")
	}
	if n := c.Flush(); n != 0 {
		t.Fatalf("second Flush removed %d", n)
	}
}

func TestDisabledCache(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Hour)
	if etag != ComputeETag([]byte("v")) {
		t.Fatalf("disabled cache should still compute etags")
	}
	if _, _, ok := c.Get("k"); ok {
		t.Fatalf("disabled cache returned a value")
	}
}

func TestETag(t *testing.T) {
	a := ComputeETag([]byte("a"))
	if a != ComputeETag([]byte("a")) || a == ComputeETag([]byte("b")) {
		t.Fatalf("etag not content-derived: %s", a)
	}
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{a, true},
		{`W/"nope", ` + a, true},
		{`W/"nope"`, false},
	}
	for _, tc := range cases {
		if got := CheckETagMatch(tc.header, a); got != tc.want {
			t.Fatalf("CheckETagMatch(%q): want=%v got=%v", tc.header, tc.want, got)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key("compare", " Barry Larkin", "MARK GRACE "); got != "compare:barry larkin:mark grace" {
		t.Fatalf("Key: got=%q", got)
	}
}
