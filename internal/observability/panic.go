package observability

import (
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"
)

// PanicPolicy decides what happens after a panic has been recovered.
// With FailFast the process exits (production); otherwise it keeps serving.
type PanicPolicy struct {
	FailFast bool
	Logger   *zap.Logger
	// Exit defaults to os.Exit.
	Exit func(code int)
}

// NewPanicPolicy builds a policy.
func NewPanicPolicy(failFast bool, logger *zap.Logger) *PanicPolicy {
	return &PanicPolicy{FailFast: failFast, Logger: logger, Exit: os.Exit}
}

// Handle logs a recovered value and exits when fail-fast is on.
func (p *PanicPolicy) Handle(where string, recovered any) {
	if p == nil || recovered == nil {
		return
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Error("panic recovered",
		zap.String("where", where),
		zap.String("panic", fmt.Sprint(recovered)),
		zap.ByteString("stack", debug.Stack()),
		zap.Bool("fail_fast", p.FailFast))
	if p.FailFast {
		_ = logger.Sync()
		exit := p.Exit
		if exit == nil {
			exit = os.Exit
		}
		exit(1)
	}
}

// Go runs fn in a goroutine under the policy.
func (p *PanicPolicy) Go(where string, fn func()) {
	go func() {
		defer func() {
			p.Handle(where, recover())
		}()
		fn()
	}()
}
