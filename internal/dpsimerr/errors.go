// Package dpsimerr defines the error taxonomy shared by the simulator core
// and the Dual-Priority synthesis algorithms.
package dpsimerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantViolation is fatal: the simulator core detected an internal
// inconsistency (time reversal, a missing job, a duplicate DP priority, an
// out-of-order schedule transition). Always wrapped with a stack trace.
type InvariantViolation struct {
	Message string
	Detail  any
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

// NewInvariantViolation constructs a stack-trace-carrying InvariantViolation.
func NewInvariantViolation(message string, detail any) error {
	return errors.WithStack(&InvariantViolation{Message: message, Detail: detail})
}

// NoValidPromotion is recoverable: a Dual-Priority search exhausted
// promotion = 0 for a task without finding a schedulable policy. Caught by
// the enclosing search level to backtrack.
type NoValidPromotion struct {
	TaskID int64
}

func (e *NoValidPromotion) Error() string {
	return fmt.Sprintf("no valid promotion for task %d", e.TaskID)
}

// NewNoValidPromotion constructs a NoValidPromotion for the given task id.
func NewNoValidPromotion(taskID int64) error {
	return &NoValidPromotion{TaskID: taskID}
}

// OptimisationFailure is recoverable: the three-task fixed-point optimiser
// diverged below zero.
type OptimisationFailure struct {
	TaskID int64
	Reason string
}

func (e *OptimisationFailure) Error() string {
	return fmt.Sprintf("optimisation failed for task %d: %s", e.TaskID, e.Reason)
}

// NewOptimisationFailure constructs an OptimisationFailure.
func NewOptimisationFailure(taskID int64, reason string) error {
	return &OptimisationFailure{TaskID: taskID, Reason: reason}
}

// NotImplemented is fatal: an unconfigured generator knob or an unknown
// scheduler-state variant was encountered.
type NotImplemented struct {
	What string
}

func (e *NotImplemented) Error() string {
	return fmt.Sprintf("not implemented: %s", e.What)
}

// NewNotImplemented constructs a stack-trace-carrying NotImplemented.
func NewNotImplemented(what string) error {
	return errors.WithStack(&NotImplemented{What: what})
}

// ParseError is soft: parsing a task-set file stops at the offending line,
// but everything parsed before it is still a valid result.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %q", e.Line, e.Text)
}

// NewParseError constructs a ParseError.
func NewParseError(line int, text string) error {
	return &ParseError{Line: line, Text: text}
}
