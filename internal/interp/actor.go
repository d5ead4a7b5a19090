package interp

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/velalang/vela/internal/ast"
)

// actorMessage is the shape of an ActorHandleValue mailbox entry: the
// payload, plus an optional reply channel for ask (send leaves ReplyTo
// nil). send and ask call the handler directly, so no actorMessage is
// ever put on the mailbox channel.
type actorMessage struct {
	Payload Value
	ReplyTo chan Value
}

// actorState holds a spawned actor's handler closure and its current
// state value; the scheduler looks these up by ID and calls the handler
// inline at the send/ask call site rather than on a separate goroutine.
type actorState struct {
	ID      string
	Handler *ClosureValue
	State   Value
}

// scheduler is Vela's single-goroutine, cooperative actor runtime: spawn
// registers an actor, and send/ask resolve by invoking the actor's
// handler inline and advancing its stored State, the way a run-to-
// completion mailbox-driven actor processes one message at a time without
// ever racing the interpreter's own evaluation loop.
type scheduler struct {
	interp *Interpreter
	actors map[string]*actorState
}

func newScheduler(i *Interpreter) *scheduler {
	return &scheduler{interp: i, actors: make(map[string]*actorState)}
}

func (i *Interpreter) evalSpawn(env *Environment, n *ast.Spawn) Signal {
	behaviorSig := i.Eval(env, n.Value)
	if behaviorSig.isExit() {
		return behaviorSig
	}
	closure, ok := behaviorSig.Value.(*ClosureValue)
	if !ok {
		return i.runtimeError(n, "spawn requires a function value, got %s", behaviorSig.Value.Type())
	}
	id := uuid.NewString()
	i.scheduler.actors[id] = &actorState{ID: id, Handler: closure, State: Unit}
	return val(&ActorHandleValue{ID: id, Mailbox: make(chan actorMessage, 256)})
}

func (i *Interpreter) evalSend(env *Environment, n *ast.Send) Signal {
	targetSig := i.Eval(env, n.Target)
	if targetSig.isExit() {
		return targetSig
	}
	msgSig := i.Eval(env, n.Message)
	if msgSig.isExit() {
		return msgSig
	}
	handle, ok := targetSig.Value.(*ActorHandleValue)
	if !ok {
		return i.runtimeError(n, "send target must be an actor handle, got %s", targetSig.Value.Type())
	}
	if err := i.scheduler.deliver(n, handle.ID, msgSig.Value, nil); err != nil {
		return i.runtimeError(n, "%s", err)
	}
	return val(Unit)
}

func (i *Interpreter) evalAsk(env *Environment, n *ast.Ask) Signal {
	targetSig := i.Eval(env, n.Target)
	if targetSig.isExit() {
		return targetSig
	}
	msgSig := i.Eval(env, n.Message)
	if msgSig.isExit() {
		return msgSig
	}
	handle, ok := targetSig.Value.(*ActorHandleValue)
	if !ok {
		return i.runtimeError(n, "ask target must be an actor handle, got %s", targetSig.Value.Type())
	}
	reply := make(chan Value, 1)
	if err := i.scheduler.deliver(n, handle.ID, msgSig.Value, reply); err != nil {
		return i.runtimeError(n, "%s", err)
	}
	return val(<-reply)
}

// deliver runs actorID's handler against msg inline, threading the
// actor's stored State as the handler's first argument and advancing it
// to the handler's result; when replyTo is non-nil (an ask rather than a
// send) that same result is also published as the reply.
func (s *scheduler) deliver(n ast.Expr, actorID string, msg Value, replyTo chan Value) error {
	a, ok := s.actors[actorID]
	if !ok {
		return fmt.Errorf("actor %s is not alive", actorID)
	}
	sig := s.interp.callClosure(n, a.Handler, []Value{a.State, msg})
	if sig.Kind == SigThrow {
		return fmt.Errorf("actor %s: %s", actorID, sig.RunErr.Message)
	}
	a.State = sig.Value
	if replyTo != nil {
		replyTo <- sig.Value
	}
	return nil
}

// evalAsync runs its body to completion immediately: the scheduler has no
// real OS-thread concurrency to suspend onto, so an async block's only
// observable effect is being a valid .await target, not deferred
// execution.
func (i *Interpreter) evalAsync(env *Environment, n *ast.Async) Signal {
	return i.evalBlockScoped(env, n.Body)
}

// evalAwait is the identity function over an already-evaluated value:
// since async blocks run eagerly, there is nothing left to suspend on by
// the time .await is reached.
func (i *Interpreter) evalAwait(env *Environment, n *ast.Await) Signal {
	return i.Eval(env, n.Value)
}
