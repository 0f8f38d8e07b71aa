package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sals.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.drv == nil {
		t.Fatal("expected non-nil driver")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sals.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.db

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestKV_GetSet(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "lastQuizAttemptId"); err != nil || ok {
		t.Fatalf("Get on empty store = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := kv.Set(ctx, "lastQuizAttemptId", "17"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := kv.Get(ctx, "lastQuizAttemptId")
	if err != nil || !ok || v != "17" {
		t.Fatalf("Get = (%q, %v, %v), want (\"17\", true, nil)", v, ok, err)
	}

	// Last writer wins.
	if err := kv.Set(ctx, "lastQuizAttemptId", "18"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, _, _ = kv.Get(ctx, "lastQuizAttemptId")
	if v != "18" {
		t.Errorf("after overwrite Get = %q, want %q", v, "18")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kv_entries").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("kv_entries rows = %d, want 1", count)
	}
}

func TestKV_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sals.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, "weakConcepts", `["base case"]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.KV().Get(ctx, "weakConcepts")
	if err != nil || !ok || v != `["base case"]` {
		t.Fatalf("Get after reopen = (%q, %v, %v)", v, ok, err)
	}
}

func TestServiceEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []ServiceRequestEventData{
		{Op: "generate", RequestID: "r1", Subject: "recursion", Status: 200, LatencyMs: 120, Success: true},
		{Op: "submit", RequestID: "r2", Subject: "42", Status: 502, LatencyMs: 30, ErrorMessage: "bad gateway"},
		{Op: "generate", RequestID: "r3", Subject: "graphs", LatencyMs: 5, ErrorMessage: "connection refused"},
	}
	for _, e := range events {
		if err := repo.AppendServiceRequest(ctx, e); err != nil {
			t.Fatalf("append %s: %v", e.RequestID, err)
		}
	}

	all, err := repo.QueryServiceEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].RequestID != "r3" || all[2].RequestID != "r1" {
		t.Errorf("order = %s,%s,%s, want newest first", all[0].RequestID, all[1].RequestID, all[2].RequestID)
	}
	if !all[2].Success || all[1].Success {
		t.Error("success flag not round-tripped")
	}
	if all[1].Status != 502 || all[1].ErrorMessage != "bad gateway" {
		t.Errorf("event r2 = %+v", all[1])
	}
	if time.Since(all[0].Timestamp) > time.Minute {
		t.Errorf("timestamp %v not recent", all[0].Timestamp)
	}

	gens, err := repo.QueryServiceEvents(ctx, QueryOpts{Op: "generate", Limit: 1})
	if err != nil {
		t.Fatalf("query op: %v", err)
	}
	if len(gens) != 1 || gens[0].RequestID != "r3" {
		t.Errorf("op+limit query = %+v", gens)
	}

	after, err := repo.QueryServiceEvents(ctx, QueryOpts{After: all[2].ID})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after query len = %d, want 2", len(after))
	}
}
