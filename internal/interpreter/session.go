package interpreter

import "github.com/dukaan-dev/sahayak/internal/command"

// PendingKind says what, if anything, the interpreter is waiting on from
// the next turn.
type PendingKind string

const (
	PendingNone         PendingKind = "none"
	PendingQuantity     PendingKind = "quantity"
	PendingConfirmation PendingKind = "confirmation"
)

// Pending is the one-turn dialogue expectation. A pending state set on
// turn N is consumed (or discarded) on turn N+1, never later.
type Pending struct {
	Kind PendingKind

	// ProductName is set when Kind is PendingQuantity.
	ProductName string
	// SuggestedText is set when Kind is PendingConfirmation; on an
	// affirmative reply it is re-parsed as if the user had said it.
	SuggestedText string
}

// Session carries the dialogue state between turns. The interpreter never
// mutates a Session in place; each Interpret call returns the next one.
type Session struct {
	Pending Pending

	// LastCommand is the most recent successfully interpreted command,
	// used for follow-up inference ("and yesterday?").
	LastCommand *command.Command
}

// NewSession returns a blank session.
func NewSession() Session {
	return Session{Pending: Pending{Kind: PendingNone}}
}

// withLastCommand returns a copy with pending cleared and the last
// command updated.
func (s Session) withLastCommand(cmd *command.Command) Session {
	return Session{
		Pending:     Pending{Kind: PendingNone},
		LastCommand: cmd,
	}
}

// cleared returns a copy with pending cleared and the last command kept.
func (s Session) cleared() Session {
	return Session{
		Pending:     Pending{Kind: PendingNone},
		LastCommand: s.LastCommand,
	}
}

// expectQuantity returns a copy waiting for a quantity for product.
func (s Session) expectQuantity(product string) Session {
	return Session{
		Pending:     Pending{Kind: PendingQuantity, ProductName: product},
		LastCommand: s.LastCommand,
	}
}

// expectConfirmation returns a copy waiting for a yes/no on suggested.
func (s Session) expectConfirmation(suggested string) Session {
	return Session{
		Pending:     Pending{Kind: PendingConfirmation, SuggestedText: suggested},
		LastCommand: s.LastCommand,
	}
}
