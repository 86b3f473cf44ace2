package domain

import "errors"

// GenericUserMessage is stored on a record when an internal error must not
// leak details to the client.
const GenericUserMessage = "An error occurred, developers have been alerted"

// Kind tags an operation error as a processor rejection (card declined,
// invalid method) or an unexpected internal failure.
type Kind string

const (
	KindProcessor Kind = "processor"
	KindInternal  Kind = "internal"
)

// OpError is the tagged error variant crossing the processor and trigger
// boundaries.
type OpError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *OpError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text safe to store on the affected record.
// Processor rejections surface their own message; everything else gets the
// generic alert text.
func (e *OpError) UserMessage() string {
	if e.Kind == KindProcessor && e.Message != "" {
		return e.Message
	}
	return GenericUserMessage
}

func NewProcessorError(message string, err error) *OpError {
	return &OpError{Kind: KindProcessor, Message: message, Err: err}
}

func NewInternalError(err error) *OpError {
	return &OpError{Kind: KindInternal, Err: err}
}

// UserMessage resolves the user-facing text for any error.
func UserMessage(err error) string {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.UserMessage()
	}
	return GenericUserMessage
}
