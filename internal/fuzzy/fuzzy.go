// Package fuzzy implements the weighted-similarity fallback matcher
// consulted when no pattern rule recognizes an utterance.
package fuzzy

import (
	"strconv"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/dukaan-dev/sahayak/internal/alias"
	"github.com/dukaan-dev/sahayak/internal/command"
	"go.uber.org/zap"
)

// Default decision thresholds and field weights. Score is a normalized
// distance where 0 means identical.
const (
	DefaultAutoExecuteBelow = 0.10
	DefaultSuggestBelow     = 0.80
	DefaultUtteranceWeight  = 0.80
	DefaultIntentWeight     = 0.20
)

// Example is one utterance->command mapping in the training corpus.
type Example struct {
	Utterance string            `yaml:"utterance"`
	Intent    string            `yaml:"intent"`
	Entities  map[string]string `yaml:"entities,omitempty"`
}

// Match is the result of a similarity search. When Suggestion is true the
// command must be confirmed before execution.
type Match struct {
	Command    *command.Command
	Score      float64
	Suggestion bool
	// SuggestedText is the matched example's utterance, shown to the user
	// and re-parsed after an affirmative reply.
	SuggestedText string
}

type indexedExample struct {
	example    Example
	utterText  string // preprocessed utterance, joined
	intentText string // preprocessed intent label, joined
}

// Matcher performs a weighted similarity search over the ingested corpus.
// The index is built once by Ingest and read-only afterwards.
type Matcher struct {
	aliases *alias.Resolver
	log     *zap.Logger

	autoBelow       float64
	suggestBelow    float64
	utteranceWeight float64
	intentWeight    float64

	index      []indexedExample
	coldLogged sync.Once
}

// Option adjusts matcher weights and thresholds.
type Option func(*Matcher)

// WithThresholds overrides the auto-execute and suggestion cutoffs.
func WithThresholds(autoBelow, suggestBelow float64) Option {
	return func(m *Matcher) {
		m.autoBelow = autoBelow
		m.suggestBelow = suggestBelow
	}
}

// WithWeights overrides the utterance/intent field weights.
func WithWeights(utterance, intent float64) Option {
	return func(m *Matcher) {
		m.utteranceWeight = utterance
		m.intentWeight = intent
	}
}

// NewMatcher creates an empty matcher. Call Ingest before Match; an
// un-ingested matcher returns no matches rather than failing.
func NewMatcher(aliases *alias.Resolver, log *zap.Logger, opts ...Option) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Matcher{
		aliases:         aliases,
		log:             log,
		autoBelow:       DefaultAutoExecuteBelow,
		suggestBelow:    DefaultSuggestBelow,
		utteranceWeight: DefaultUtteranceWeight,
		intentWeight:    DefaultIntentWeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ingest builds the similarity index from the corpus. It is called once
// at startup; the index is never rebuilt per query.
func (m *Matcher) Ingest(examples []Example) {
	index := make([]indexedExample, 0, len(examples))
	for _, ex := range examples {
		utter := strings.Join(preprocess(ex.Utterance), " ")
		if utter == "" {
			continue
		}
		intent := strings.Join(preprocess(strings.ReplaceAll(ex.Intent, "-", " ")), " ")
		index = append(index, indexedExample{example: ex, utterText: utter, intentText: intent})
	}
	m.index = index
}

// Len reports how many examples are indexed.
func (m *Matcher) Len() int { return len(m.index) }

// Match searches the corpus for the closest example. It returns nil when
// the corpus is empty, when no candidate clears the no-match cutoff, or
// when the best example does not translate to a known command type.
func (m *Matcher) Match(utterance string) *Match {
	if len(m.index) == 0 {
		m.coldLogged.Do(func() {
			m.log.Warn("fuzzy matcher consulted before corpus ingestion; pattern-only operation")
		})
		return nil
	}

	query := strings.Join(preprocess(utterance), " ")
	if query == "" {
		return nil
	}

	best := -1
	bestScore := 2.0
	for i, ex := range m.index {
		du := normalizedDistance(query, ex.utterText)
		di := normalizedDistance(query, ex.intentText)
		// Intent-text similarity may only strengthen a match: a perfect
		// utterance match must score 0, and an intent label alone must
		// not drag a poor utterance match into the execute band.
		if di > du {
			di = du
		}
		score := m.utteranceWeight*du + m.intentWeight*di
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 || bestScore >= m.suggestBelow {
		return nil
	}

	ex := m.index[best].example
	cmd := m.buildCommand(ex)
	if cmd == nil {
		return nil
	}

	if bestScore < m.autoBelow {
		// Close enough to execute: trust the template but let the raw
		// utterance override its entities.
		cmd = m.reextract(cmd, utterance)
		return &Match{Command: cmd, Score: bestScore, SuggestedText: ex.Utterance}
	}
	return &Match{Command: cmd, Score: bestScore, Suggestion: true, SuggestedText: ex.Utterance}
}

// normalizedDistance is edit distance scaled into [0,1] by the longer
// string, 0 meaning identical.
func normalizedDistance(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// buildCommand turns an example's intent and entity template into a
// typed command. Unknown intents yield nil.
func (m *Matcher) buildCommand(ex Example) *command.Command {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := ex.Entities[k]; ok && v != "" {
				return v
			}
		}
		return ""
	}
	num := func(keys ...string) *float64 {
		raw := get(keys...)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	product := m.resolveName(get("product", "product_name", "item"))

	switch command.Type(ex.Intent) {
	case command.TypeAddItem:
		return command.NewAddItem(product, num("quantity", "qty"))
	case command.TypeRemoveItem:
		return command.NewRemoveItem(product, num("quantity", "qty"))
	case command.TypeModifyItem:
		return command.NewModifyItem(product, num("quantity", "qty"))
	case command.TypeCheckStock:
		return command.NewCheckStock(product)
	case command.TypeApplyDiscount:
		pct := num("percent", "discount")
		if pct == nil {
			pct = command.Float(0)
		}
		return command.NewApplyDiscount(*pct, product)
	case command.TypeHoldBill:
		return command.NewHoldBill()
	case command.TypeUnholdBill:
		return command.NewUnholdBill()
	case command.TypeDataModification:
		return command.NewDataModification(get("target", "field"), product, num("value"))
	case command.TypeAnalyticsQuery:
		return command.NewAnalyticsQuery(get("metric"), get("period"))
	case command.TypeReportQuery:
		return command.NewReportQuery(get("report"), get("period"))
	case command.TypeNavigate:
		return command.NewNavigate(get("screen", "page"))
	case command.TypeAddExpense:
		return command.NewAddExpense(num("amount"), get("reason"))
	case command.TypeLearnAlias:
		return command.NewLearnAlias(get("alias"), get("target"))
	case command.TypeClearCart:
		return command.NewClearCart()
	case command.TypeBillLookup:
		return command.NewBillLookup(get("bill_number", "number"))
	case command.TypeCustomerLookup:
		return command.NewCustomerLookup(m.resolveName(get("name", "customer")))
	case command.TypeInventoryQuery:
		return command.NewInventoryQuery(get("filter"))
	case command.TypeKnowledgeQuery:
		return command.NewKnowledgeQuery(get("question"))
	case command.TypeInventoryForecast:
		return command.NewInventoryForecast(product)
	case command.TypePurchaseOrder:
		return command.NewPurchaseOrder()
	default:
		m.log.Debug("corpus example with unknown intent", zap.String("intent", ex.Intent))
		return nil
	}
}

// reextract overrides template entities with values found in the raw
// utterance: the first bare number fills the numeric field appropriate to
// the intent family, and the last non-stop-word token fills name-like
// fields after alias resolution. The last-token heuristic is a known
// limitation for multi-word names.
func (m *Matcher) reextract(cmd *command.Command, utterance string) *command.Command {
	tokens := contentTokens(utterance)
	if len(tokens) == 0 {
		return cmd
	}

	var number *float64
	for _, tok := range tokens {
		if isNumeric(tok) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				number = &v
				break
			}
		}
	}

	lastName := ""
	for i := len(tokens) - 1; i >= 0; i-- {
		if !isNumeric(tokens[i]) {
			lastName = m.resolveName(tokens[i])
			break
		}
	}

	out := *cmd
	switch out.Type {
	case command.TypeAddItem:
		p := *out.AddItem
		if number != nil {
			p.Quantity = number
		}
		if lastName != "" {
			p.ProductName = lastName
		}
		out.AddItem = &p
	case command.TypeRemoveItem:
		p := *out.RemoveItem
		if number != nil {
			p.Quantity = number
		}
		if lastName != "" {
			p.ProductName = lastName
		}
		out.RemoveItem = &p
	case command.TypeModifyItem:
		p := *out.ModifyItem
		if number != nil {
			p.Quantity = number
		}
		if lastName != "" {
			p.ProductName = lastName
		}
		out.ModifyItem = &p
	case command.TypeCheckStock:
		p := *out.CheckStock
		if lastName != "" {
			p.ProductName = lastName
		}
		out.CheckStock = &p
	case command.TypeDataModification:
		p := *out.DataModification
		if number != nil {
			p.Value = number
		}
		out.DataModification = &p
	case command.TypeBillLookup:
		p := *out.BillLookup
		if number != nil {
			p.BillNumber = strconv.FormatFloat(*number, 'f', -1, 64)
		}
		out.BillLookup = &p
	case command.TypeAddExpense:
		p := *out.AddExpense
		if number != nil {
			p.Amount = number
		}
		out.AddExpense = &p
	case command.TypeCustomerLookup:
		p := *out.CustomerLookup
		if lastName != "" {
			p.Name = lastName
		}
		out.CustomerLookup = &p
	case command.TypeInventoryForecast:
		p := *out.InventoryForecast
		if lastName != "" {
			p.ProductName = lastName
		}
		out.InventoryForecast = &p
	}
	return &out
}

func (m *Matcher) resolveName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || m.aliases == nil {
		return name
	}
	return m.aliases.Resolve(name)
}
