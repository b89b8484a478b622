// Package interpreter wires the pattern router, the fuzzy matcher and the
// one-turn dialogue context into a single entry point. Every utterance
// goes through the same pipeline: pending context first, then follow-up
// inference, then the rule table, then similarity search.
package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dukaan-dev/sahayak/internal/command"
	"github.com/dukaan-dev/sahayak/internal/fuzzy"
	"github.com/dukaan-dev/sahayak/internal/models"
	"github.com/dukaan-dev/sahayak/internal/router"
)

// Route labels recorded in the interpretation audit trail.
const (
	RouteContext  = "context"
	RouteFollowup = "followup"
	RoutePattern  = "pattern"
	RouteFuzzy    = "fuzzy"
	RouteNone     = "none"
)

// Outcome classifies what a turn produced.
type Outcome string

const (
	// OutcomeCommand carries a command ready for dispatch.
	OutcomeCommand Outcome = "command"
	// OutcomeSuggestion asks the user to confirm a near-match first.
	OutcomeSuggestion Outcome = "suggestion"
	// OutcomePrompt asks the user for a missing detail.
	OutcomePrompt Outcome = "prompt"
	// OutcomeCancelled acknowledges a declined suggestion.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeNone means the utterance was not understood.
	OutcomeNone Outcome = "none"
)

// Result is what one turn of interpretation produced. Command is non-nil
// only for OutcomeCommand.
type Result struct {
	Outcome Outcome
	Command *command.Command
	// Message is the user-facing text for prompts, suggestions and
	// cancellations.
	Message string
	// Route says which pipeline stage produced the result.
	Route string
	// Score is the fuzzy match score, zero for pattern routes.
	Score float64
}

// Auditor records each interpretation for the audit trail. *store.Store
// satisfies it.
type Auditor interface {
	RecordInterpretation(utterance, route, commandType string, score float64) (*models.Interpretation, error)
}

// Interpreter runs the interpretation pipeline. It is not safe for
// concurrent use; callers serialize turns per session.
type Interpreter struct {
	router *router.Router
	fuzzy  *fuzzy.Matcher
	audit  Auditor
	log    *zap.Logger
}

// New creates an Interpreter. The fuzzy matcher and auditor may be nil;
// the corresponding stages are then skipped.
func New(rt *router.Router, fz *fuzzy.Matcher, audit Auditor, log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{router: rt, fuzzy: fz, audit: audit, log: log}
}

var (
	affirmatives = map[string]bool{
		"yes": true, "y": true, "yeah": true, "yep": true, "ok": true,
		"okay": true, "sure": true, "confirm": true, "do it": true,
		"haan": true, "ha": true, "han": true, "ji": true, "theek": true,
		"theek hai": true, "sahi": true, "sahi hai": true,
	}
	negatives = map[string]bool{
		"no": true, "n": true, "nope": true, "cancel": true, "never": true,
		"nahi": true, "nahin": true, "nai": true, "mat": true,
		"rehne do": true, "chhodo": true, "galat": true,
	}

	followupRE = regexp.MustCompile(`^(?:and|aur|what about|how about)\b`)
	periodRE   = regexp.MustCompile(`\b(today|yesterday|this week|last week|this month|last month|this year|last year)\b`)
)

// Interpret runs one turn. The returned Session replaces the caller's
// copy; pending context set by a previous turn is consumed here exactly
// once, whatever this turn's utterance turns out to be.
func (it *Interpreter) Interpret(utterance string, sess Session) (Result, Session) {
	u := strings.ToLower(strings.TrimSpace(utterance))
	u = strings.Join(strings.Fields(strings.Trim(u, ".!?")), " ")
	if u == "" {
		return Result{Outcome: OutcomeNone, Route: RouteNone}, sess
	}

	// Stage 1: pending context from the previous turn.
	if res, next, handled := it.consumePending(u, sess); handled {
		it.record(u, res)
		return res, next
	}
	sess = sess.cleared() // pending, if any, is spent

	// Stage 2: follow-up inference over the last report-like command.
	if res, next, ok := it.inferFollowup(u, sess); ok {
		it.record(u, res)
		return res, next
	}

	// Stage 3: the pattern rule table.
	if cmd := it.router.Route(u); cmd != nil {
		res, next := it.acceptRouted(u, cmd, sess)
		it.record(u, res)
		return res, next
	}

	// Stage 4: fuzzy fallback.
	if it.fuzzy != nil {
		if m := it.fuzzy.Match(u); m != nil {
			res, next := it.acceptFuzzy(m, sess)
			it.record(u, res)
			return res, next
		}
	}

	res := Result{
		Outcome: OutcomeNone,
		Route:   RouteNone,
		Message: "Sorry, I did not understand that. Try 'add 2 milk' or 'sales report today'.",
	}
	it.record(u, res)
	return res, sess
}

// consumePending resolves the previous turn's expectation. It reports
// handled=false when the reply does not fit the expectation, in which
// case the utterance is re-interpreted from scratch (with pending
// discarded by the caller).
func (it *Interpreter) consumePending(u string, sess Session) (Result, Session, bool) {
	switch sess.Pending.Kind {
	case PendingQuantity:
		if qty, ok := firstNumber(u); ok {
			cmd := command.NewAddItem(sess.Pending.ProductName, command.Float(qty))
			res := Result{Outcome: OutcomeCommand, Command: cmd, Route: RouteContext}
			return res, sess.withLastCommand(cmd), true
		}
		return Result{}, sess, false

	case PendingConfirmation:
		switch {
		case affirmatives[u]:
			cmd := it.reparse(sess.Pending.SuggestedText)
			if cmd == nil {
				res := Result{
					Outcome: OutcomeNone,
					Route:   RouteContext,
					Message: "Sorry, I could not work out what to do with that.",
				}
				return res, sess.cleared(), true
			}
			res := Result{Outcome: OutcomeCommand, Command: cmd, Route: RouteContext}
			return res, sess.withLastCommand(cmd), true
		case negatives[u]:
			res := Result{
				Outcome: OutcomeCancelled,
				Route:   RouteContext,
				Message: "Okay, cancelled.",
			}
			return res, sess.cleared(), true
		default:
			// Neither yes nor no: the user moved on. Drop the
			// suggestion and treat this as a fresh utterance.
			return Result{}, sess, false
		}
	}
	return Result{}, sess, false
}

// inferFollowup handles "and yesterday?" style turns: a follow-up prefix
// plus a period, when the last command was report-like, repeats that
// command with only the period swapped.
func (it *Interpreter) inferFollowup(u string, sess Session) (Result, Session, bool) {
	if !sess.LastCommand.IsReportLike() {
		return Result{}, sess, false
	}
	if !followupRE.MatchString(u) {
		return Result{}, sess, false
	}
	m := periodRE.FindStringSubmatch(u)
	if m == nil {
		return Result{}, sess, false
	}
	cmd := sess.LastCommand.WithPeriod(m[1])
	if cmd == nil {
		return Result{}, sess, false
	}
	res := Result{Outcome: OutcomeCommand, Command: cmd, Route: RouteFollowup}
	return res, sess.withLastCommand(cmd), true
}

// acceptRouted post-processes a pattern-routed command, turning payloads
// with missing required values into prompts.
func (it *Interpreter) acceptRouted(u string, cmd *command.Command, sess Session) (Result, Session) {
	switch {
	case cmd.Type == command.TypeAddItem && cmd.AddItem.Quantity == nil:
		res := Result{
			Outcome: OutcomePrompt,
			Route:   RoutePattern,
			Message: fmt.Sprintf("How many %s?", cmd.AddItem.ProductName),
		}
		return res, sess.expectQuantity(cmd.AddItem.ProductName)

	case cmd.Type == command.TypeDataModification && cmd.DataModification.Value == nil:
		dm := cmd.DataModification
		res := Result{
			Outcome: OutcomePrompt,
			Route:   RoutePattern,
			Message: fmt.Sprintf("I did not catch the number. What should the %s of %s be?", dm.Target, dm.ProductName),
		}
		return res, sess.cleared()
	}
	res := Result{Outcome: OutcomeCommand, Command: cmd, Route: RoutePattern}
	return res, sess.withLastCommand(cmd)
}

// acceptFuzzy converts a similarity match into either an executable
// command or a confirmation request.
func (it *Interpreter) acceptFuzzy(m *fuzzy.Match, sess Session) (Result, Session) {
	if m.Suggestion {
		res := Result{
			Outcome: OutcomeSuggestion,
			Route:   RouteFuzzy,
			Score:   m.Score,
			Message: fmt.Sprintf("Did you mean: %q?", m.SuggestedText),
		}
		return res, sess.expectConfirmation(m.SuggestedText)
	}
	// Re-extraction found no number for an add-item: prompt for the
	// quantity the same way a pattern route would.
	if m.Command.Type == command.TypeAddItem && m.Command.AddItem.Quantity == nil {
		res := Result{
			Outcome: OutcomePrompt,
			Route:   RouteFuzzy,
			Score:   m.Score,
			Message: fmt.Sprintf("How many %s?", m.Command.AddItem.ProductName),
		}
		return res, sess.expectQuantity(m.Command.AddItem.ProductName)
	}
	res := Result{Outcome: OutcomeCommand, Command: m.Command, Route: RouteFuzzy, Score: m.Score}
	return res, sess.withLastCommand(m.Command)
}

// reparse interprets a confirmed suggestion text. The rule table gets
// first try; corpus utterances that no rule covers go back through the
// matcher, whose result is accepted without a second confirmation.
func (it *Interpreter) reparse(text string) *command.Command {
	if cmd := it.router.Route(text); cmd != nil {
		return cmd
	}
	if it.fuzzy != nil {
		if m := it.fuzzy.Match(text); m != nil {
			return m.Command
		}
	}
	return nil
}

// record appends the turn to the audit trail. Failures are logged, never
// surfaced: auditing must not break interpretation.
func (it *Interpreter) record(u string, res Result) {
	if it.audit == nil {
		return
	}
	var cmdType string
	if res.Command != nil {
		cmdType = string(res.Command.Type)
	}
	if _, err := it.audit.RecordInterpretation(u, res.Route, cmdType, res.Score); err != nil {
		it.log.Debug("interpretation audit failed", zap.Error(err))
	}
}

// firstNumber finds the first numeric token in a reply like "5",
// "5 packets" or "about 5".
func firstNumber(u string) (float64, bool) {
	for _, tok := range strings.Fields(u) {
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
