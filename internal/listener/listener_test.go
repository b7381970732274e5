package listener

import (
	"testing"
	"time"
)

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent(`{"run_id":"6f1c1f7e-2a0b-4c2e-9d63-1c5b8f0e4a11","embedding_type":"season_summary","model":"nomic-embed-text","seasons_indexed":4210,"ts":1760000000}`)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if ev.RunID.String() != "6f1c1f7e-2a0b-4c2e-9d63-1c5b8f0e4a11" {
		t.Errorf("RunID = %s", ev.RunID)
	}
	if ev.EmbeddingType != "season_summary" || ev.SeasonsIndexed != 4210 || ev.Timestamp != 1760000000 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestParseEventRejectsBadPayloads(t *testing.T) {
	for _, payload := range []string{
		``,
		`not json`,
		`{"embedding_type":"season_summary"}`,
		`{"run_id":"not-a-uuid"}`,
	} {
		if _, err := ParseEvent(payload); err == nil {
			t.Errorf("ParseEvent(%q) should fail", payload)
		}
	}
}

func TestNextBackoff(t *testing.T) {
	b := reconnectBackoff
	seen := []time.Duration{b}
	for range 4 {
		b = nextBackoff(b)
		seen = append(seen, b)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 30 * time.Second, 30 * time.Second}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("backoff[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}
