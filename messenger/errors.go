package messenger

import "fmt"

// Error is the payload of the error event. Validation and authorization
// errors carry no details; storage failures carry the underlying cause.
type Error struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`

	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(message string) *Error {
	return &Error{Message: message}
}

// Failure wraps an unexpected error under a stable message.
func Failure(message string, err error) *Error {
	return &Error{Message: message, Details: err.Error(), err: err}
}

const (
	errEmptyText          = "Message text cannot be empty"
	errFileRequired       = "fileUrl is required for file messages"
	errUnsupportedType    = "Unsupported message type"
	errConversationAccess = "Conversation not found or access denied"
	errNotEditable        = "Message not found or not editable"
	errNotDeletable       = "Message not found or not deletable"

	errSendFailed    = "Failed to send message"
	errEditFailed    = "Failed to edit message"
	errDeleteFailed  = "Failed to delete message"
	errHistoryFailed = "Failed to load messages"
)
