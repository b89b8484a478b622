// Package knowledge answers how-do-i questions from a small FAQ corpus
// using the same normalized-distance scoring as the fuzzy matcher.
package knowledge

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/dukaan-dev/sahayak/internal/models"
)

// matchBelow is the cutoff above which a question is considered
// unanswered. FAQ matching is more permissive than command matching
// because a wrong answer here is cheap.
const matchBelow = 0.65

// Responder answers free-text questions from an ingested FAQ set.
type Responder struct {
	log     *zap.Logger
	entries []entry
}

type entry struct {
	question string // normalized
	answer   string
}

// NewResponder creates an empty responder. Call Ingest before Answer.
func NewResponder(log *zap.Logger) *Responder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{log: log}
}

// Ingest indexes FAQ entries. Entries with an empty question are skipped.
func (r *Responder) Ingest(entries []models.FAQEntry) {
	r.entries = r.entries[:0]
	for _, e := range entries {
		q := normalize(e.Question)
		if q == "" {
			continue
		}
		r.entries = append(r.entries, entry{question: q, answer: e.Answer})
	}
}

// Len reports how many entries are indexed.
func (r *Responder) Len() int { return len(r.entries) }

// Answer returns the closest FAQ answer and true, or "" and false when
// nothing is close enough.
func (r *Responder) Answer(question string) (string, bool) {
	q := normalize(question)
	if q == "" || len(r.entries) == 0 {
		return "", false
	}
	best := -1
	bestScore := 2.0
	for i, e := range r.entries {
		d := distance(q, e.question)
		if d < bestScore {
			bestScore = d
			best = i
		}
	}
	if best < 0 || bestScore >= matchBelow {
		return "", false
	}
	return r.entries[best].answer, true
}

// Default is the starter FAQ set shipped with the app.
func Default() []models.FAQEntry {
	return []models.FAQEntry{
		{Question: "how do i issue a refund", Answer: "Open the bill, select the items to return, and press Refund. Stock is adjusted automatically."},
		{Question: "how do i add a new product", Answer: "Go to the inventory screen and press Add Product, or say 'set stock of <name> to <count>'."},
		{Question: "how do i give credit to a customer", Answer: "Mark the bill as udhaar before closing it; it will appear in the credit report."},
		{Question: "how do i print a bill", Answer: "Press Print on the billing screen. Configure the printer under settings."},
		{Question: "how do i file gst", Answer: "Run the GST report for the month and share it with your accountant. Sahayak does not file returns itself."},
		{Question: "how do i backup my data", Answer: "Copy the database file from the data directory. Everything lives in that one file."},
		{Question: "how do i teach a new word", Answer: "Say 'learn <word> means <product>' and it will be remembered across restarts."},
	}
}

func normalize(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
		}
		lastSpace = true
	}
	return strings.TrimSpace(b.String())
}

func distance(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
