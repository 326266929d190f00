package vm

import (
	"errors"
	"fmt"
)

// Every error kind is terminal within a run. The machine stops at the
// first one; nothing is retried.
var (
	ErrMissingVersion         = errors.New("missing version")
	ErrUnexpectedEndOfProgram = errors.New("unexpected end of program")
	ErrTruncatedWord          = errors.New("truncated 32-bit integer")
	ErrNoResult               = errors.New("no result in the result register")
)

// VersionMismatchError reports a program whose version byte is not the
// supported format version.
type VersionMismatchError struct {
	Version byte
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch: %d", e.Version)
}

// FileOpenError reports a failure to read a program file.
type FileOpenError struct {
	Filename string
	Err      error
}

func (e FileOpenError) Error() string {
	return fmt.Sprintf("opening file %q: %v", e.Filename, e.Err)
}

func (e FileOpenError) Unwrap() error {
	return e.Err
}

// NoSuchInstructionError reports an undefined opcode.
type NoSuchInstructionError struct {
	Opcode byte
}

func (e NoSuchInstructionError) Error() string {
	return fmt.Sprintf("no such instruction: %d", e.Opcode)
}

// NoSuchRegisterError reports a read of a register that was never written.
type NoSuchRegisterError struct {
	Reg Reg
}

func (e NoSuchRegisterError) Error() string {
	return fmt.Sprintf("no such register: %s", e.Reg)
}

// NowhereToJumpError reports a taken branch whose target lies outside the
// program.
type NowhereToJumpError struct {
	Target uint32
}

func (e NowhereToJumpError) Error() string {
	return fmt.Sprintf("nowhere to jump to: %d", e.Target)
}
