package handshake

import (
	"errors"
	"fmt"
)

// State is a step of the handshake state machine.
type State int

const (
	Idle State = iota
	KeySent
	KeyReceived
	Established
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case KeySent:
		return "key-sent"
	case KeyReceived:
		return "key-received"
	case Established:
		return "established"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrHandshakeFailed matches every handshake failure.
	ErrHandshakeFailed = errors.New("handshake failed")
	// ErrNoCookie is returned when the device sets no session cookie.
	ErrNoCookie = errors.New("no session cookie in handshake response")
)

// Error records the state in which a handshake failed.
type Error struct {
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("handshake failed in %s: %v", e.State, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match ErrHandshakeFailed.
func (e *Error) Is(target error) bool { return target == ErrHandshakeFailed }
