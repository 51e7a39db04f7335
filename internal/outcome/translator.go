package outcome

import (
	"errors"

	"go.uber.org/zap"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/git"
)

// Translator turns failures into *Error values and records the engine
// diagnostics on the logger.
type Translator struct {
	logger   *zap.Logger
	classify func(error) git.ErrorCode
}

// NewTranslator returns a Translator that logs to logger. A nil logger
// discards diagnostics.
func NewTranslator(logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{logger: logger, classify: git.Classify}
}

// Translate returns nil for a nil err. Otherwise it yields exactly one
// outcome for err; an err that already is an *Error is returned unchanged.
func (t *Translator) Translate(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var translated *Error
	if errors.As(err, &translated) {
		return translated
	}

	code := git.CodeGenericError
	symbol := FastForwardOnly
	if !errors.Is(err, ErrFastForwardOnly) {
		code = t.classify(err)
		var ok bool
		symbol, ok = FromCode(code)
		if !ok {
			t.logger.DPanic("error code has no outcome",
				zap.String("operation", op),
				zap.Int("code", int(code)),
			)
		}
	}

	t.logger.Warn("operation failed",
		zap.String("operation", op),
		zap.Stringer("code", code),
		zap.Stringer("outcome", symbol),
		zap.Error(err),
	)
	return &Error{Outcome: symbol, Op: op, cause: err}
}
