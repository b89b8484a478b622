// Package api provides the HTTP surface and the session-owning service
// layer that ties interpretation and dispatch together.
package api

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dukaan-dev/sahayak/internal/command"
	"github.com/dukaan-dev/sahayak/internal/dispatch"
	"github.com/dukaan-dev/sahayak/internal/interpreter"
)

// Reply is what one utterance produced, after interpretation and, for
// executable outcomes, dispatch.
type Reply struct {
	Outcome interpreter.Outcome `json:"outcome"`
	// Message is the user-facing response text.
	Message string `json:"message"`
	// Command is the interpreted command, when there was one.
	Command *command.Command `json:"command,omitempty"`
	// Result is the dispatch result for executed commands.
	Result *command.ExecResult `json:"result,omitempty"`
	Score  float64             `json:"score,omitempty"`
}

// Answerer resolves questions the interpreter could not turn into a
// command. *knowledge.Responder satisfies it.
type Answerer interface {
	Answer(question string) (string, bool)
}

// Service owns the dialogue session and serializes turns. One service
// means one conversation; the REPL, the TUI and the HTTP API all speak
// to the same shopkeeper.
type Service struct {
	mu     sync.Mutex
	interp *interpreter.Interpreter
	disp   *dispatch.Dispatcher
	know   Answerer
	sess   interpreter.Session
	log    *zap.Logger
}

// NewService creates a Service with a fresh session. know may be nil;
// unrecognized utterances then get the generic clarification only.
func NewService(interp *interpreter.Interpreter, disp *dispatch.Dispatcher, know Answerer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		interp: interp,
		disp:   disp,
		know:   know,
		sess:   interpreter.NewSession(),
		log:    log,
	}
}

// Ask runs one full turn: interpret, then execute when the interpreter
// produced a command. Prompts, suggestions and cancellations come back
// as replies without a dispatch result. Utterances the interpreter could
// not place go to the knowledge responder before the generic
// clarification.
func (s *Service) Ask(utterance string) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sess
	res, next := s.interp.Interpret(utterance, s.sess)
	s.sess = next

	reply := &Reply{
		Outcome: res.Outcome,
		Message: res.Message,
		Command: res.Command,
		Score:   res.Score,
	}
	if res.Outcome == interpreter.OutcomeNone && s.know != nil {
		if answer, found := s.know.Answer(utterance); found {
			reply.Message = answer
			return reply, nil
		}
	}
	if res.Outcome != interpreter.OutcomeCommand {
		return reply, nil
	}

	exec, err := s.disp.Execute(res.Command)
	if err != nil {
		s.sess.LastCommand = prev.LastCommand
		s.log.Error("dispatch failed",
			zap.String("command", string(res.Command.Type)), zap.Error(err))
		return nil, err
	}
	if !exec.Success {
		// Follow-up memory only keeps commands that actually went
		// through; a refused one must not shadow the last good one.
		s.sess.LastCommand = prev.LastCommand
	}
	reply.Result = exec
	reply.Message = exec.Message
	return reply, nil
}

// Interpret runs interpretation only, leaving execution to the caller.
// The session still advances: prompts and suggestions set pending state
// exactly as Ask does.
func (s *Service) Interpret(utterance string) *Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, next := s.interp.Interpret(utterance, s.sess)
	s.sess = next
	return &Reply{
		Outcome: res.Outcome,
		Message: res.Message,
		Command: res.Command,
		Score:   res.Score,
	}
}

// Execute dispatches an already-built command, bypassing interpretation.
func (s *Service) Execute(cmd *command.Command) (*command.ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disp.Execute(cmd)
}

// Reset discards the dialogue session.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = interpreter.NewSession()
}
