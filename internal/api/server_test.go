package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukaan-dev/sahayak/internal/alias"
	"github.com/dukaan-dev/sahayak/internal/command"
	"github.com/dukaan-dev/sahayak/internal/dispatch"
	"github.com/dukaan-dev/sahayak/internal/fuzzy"
	"github.com/dukaan-dev/sahayak/internal/interpreter"
	"github.com/dukaan-dev/sahayak/internal/router"
	"github.com/dukaan-dev/sahayak/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	resolver := alias.NewResolver(st, nil)
	matcher := fuzzy.NewMatcher(resolver, nil)
	interp := interpreter.New(router.New(resolver), matcher, st, nil)
	disp := dispatch.New(st, resolver, nil, nil)
	service := NewService(interp, disp, nil, nil)
	return NewServer(service, st, "127.0.0.1:0", nil), st
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !health.OK || health.DB != "ok" || health.Time == "" {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestHealthMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Result().StatusCode)
	}
}

func TestAskEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"utterance":"add 2 milk"}`))
	w := httptest.NewRecorder()
	s.handleAsk(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Outcome != interpreter.OutcomeCommand {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.Result == nil || !reply.Result.Success {
		t.Errorf("expected a successful result, got %+v", reply.Result)
	}

	p, err := st.GetProduct("milk")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 8 {
		t.Errorf("expected stock 8, got %v", p.Stock)
	}
}

func TestAskPromptCarriesSessionAcrossRequests(t *testing.T) {
	s, st := newTestServer(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}

	ask := func(utterance string) Reply {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/ask",
			strings.NewReader(`{"utterance":"`+utterance+`"}`))
		w := httptest.NewRecorder()
		s.handleAsk(w, req)
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("ask %q: status %d", utterance, w.Result().StatusCode)
		}
		var reply Reply
		if err := json.NewDecoder(w.Result().Body).Decode(&reply); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return reply
	}

	if reply := ask("add milk"); reply.Outcome != interpreter.OutcomePrompt {
		t.Fatalf("expected a prompt, got %+v", reply)
	}
	reply := ask("3")
	if reply.Outcome != interpreter.OutcomeCommand {
		t.Fatalf("expected the quantity reply to execute, got %+v", reply)
	}
	p, _ := st.GetProduct("milk")
	if p.Stock != 7 {
		t.Errorf("expected stock 7, got %v", p.Stock)
	}
}

func TestInterpretDoesNotExecute(t *testing.T) {
	s, st := newTestServer(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/interpret",
		strings.NewReader(`{"utterance":"add 2 milk"}`))
	w := httptest.NewRecorder()
	s.handleInterpret(w, req)

	var reply Reply
	if err := json.NewDecoder(w.Result().Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Command == nil || reply.Command.Type != command.TypeAddItem {
		t.Fatalf("unexpected reply %+v", reply)
	}

	p, _ := st.GetProduct("milk")
	if p.Stock != 10 {
		t.Errorf("interpret must not touch stock, got %v", p.Stock)
	}
}

func TestExecuteEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/execute",
		strings.NewReader(`{"type":"add-expense","add_expense":{"amount":500,"reason":"taxi"}}`))
	w := httptest.NewRecorder()
	s.handleExecute(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var res command.ExecResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Success || !strings.Contains(res.Message, "taxi") {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestExecuteRejectsMissingType(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	s.handleExecute(w, req)
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestAliasesEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	if err := st.SetAlias("bourbon", "biscuit"); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/aliases", nil)
	w := httptest.NewRecorder()
	s.handleAliases(w, req)

	var aliases map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&aliases); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if aliases["bourbon"] != "biscuit" {
		t.Errorf("unexpected aliases %v", aliases)
	}
}

func TestAskRejectsEmptyUtterance(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	s.handleAsk(w, req)
	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Result().StatusCode)
	}
}
