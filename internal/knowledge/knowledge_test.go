package knowledge

import (
	"strings"
	"testing"

	"github.com/dukaan-dev/sahayak/internal/models"
)

func TestAnswerExactAndNear(t *testing.T) {
	r := NewResponder(nil)
	r.Ingest(Default())

	ans, ok := r.Answer("how do i issue a refund")
	if !ok {
		t.Fatal("expected an answer for an exact question")
	}
	if !strings.Contains(ans, "Refund") {
		t.Errorf("unexpected answer %q", ans)
	}

	ans, ok = r.Answer("how do i issue refunds?")
	if !ok {
		t.Fatal("expected an answer for a near question")
	}
	if !strings.Contains(ans, "Refund") {
		t.Errorf("unexpected answer %q", ans)
	}
}

func TestAnswerNoMatch(t *testing.T) {
	r := NewResponder(nil)
	r.Ingest(Default())
	if ans, ok := r.Answer("xyzzy qwerty zzz"); ok {
		t.Fatalf("expected no answer, got %q", ans)
	}
}

func TestEmptyResponder(t *testing.T) {
	r := NewResponder(nil)
	if _, ok := r.Answer("how do i issue a refund"); ok {
		t.Fatal("empty responder must not answer")
	}
	if r.Len() != 0 {
		t.Errorf("expected 0 entries, got %d", r.Len())
	}
}

func TestIngestSkipsEmptyQuestions(t *testing.T) {
	r := NewResponder(nil)
	r.Ingest([]models.FAQEntry{
		{Question: "", Answer: "ignored"},
		{Question: "how do i print a bill", Answer: "press print"},
	})
	if r.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", r.Len())
	}
}
