package passthrough

import "fmt"

// ChannelError is a non-zero status on the outer passthrough response.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string { return "passthrough: " + e.Err.Error() }

func (e *ChannelError) Unwrap() error { return e.Err }

// CommandRejected is a non-zero status on the decrypted inner response.
type CommandRejected struct {
	Method string
	Err    error
}

func (e *CommandRejected) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Method, e.Err)
}

func (e *CommandRejected) Unwrap() error { return e.Err }
