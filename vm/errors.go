package vm

import (
	"errors"
	"fmt"
)

var (
	ErrResolution     = errors.New("unknown word")
	ErrRegistration   = errors.New("invalid word registration")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrNoSource       = errors.New("no token source")
	ErrNoDefinition   = errors.New("no word under construction")
	ErrReentrantDrain = errors.New("word under construction is already running")
	ErrNoHistory      = errors.New("history is not enabled")
)

// TokenError carries the token whose processing failed.
type TokenError struct {
	Token string
	Err   error
}

func (e *TokenError) Error() string { return fmt.Sprintf("%q: %v", e.Token, e.Err) }
func (e *TokenError) Unwrap() error { return e.Err }

// WordError carries the name of the word whose behaviour failed.
type WordError struct {
	Word string
	Err  error
}

func (e *WordError) Error() string { return fmt.Sprintf("%s: %v", e.Word, e.Err) }
func (e *WordError) Unwrap() error { return e.Err }
