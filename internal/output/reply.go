// Package output renders operation replies for the command line.
package output

import (
	"github.com/MyCarrier-DevOps/go-gitbridge/internal/outcome"
)

// Reply statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Reply is the boundary value of every operation: a success message or a
// single outcome symbol.
type Reply struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Outcome string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// OK reports whether the reply is a success.
func (r Reply) OK() bool {
	return r.Status == StatusOK
}

// Success returns a successful reply carrying message.
func Success(message string) Reply {
	return Reply{Status: StatusOK, Message: message}
}

// Failure returns the error reply for err. Errors that are not
// *outcome.Error report generic_error.
func Failure(err error) Reply {
	return Reply{Status: StatusError, Outcome: outcome.Of(err).String()}
}

// FromResult builds the reply of an operation call.
func FromResult(message string, err error) Reply {
	if err != nil {
		return Failure(err)
	}
	return Success(message)
}
