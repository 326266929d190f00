// Package vm implements the Rain bytecode virtual machine: a register
// machine executing a versioned binary instruction format from a flat byte
// buffer.
package vm

import (
	"os"

	"github.com/elpinal/rain-vm/version"
	"go.uber.org/zap"
)

// The top 5 bits of a descriptor byte select the opcode; the low 3 bits
// are opcode-specific flags.
const shiftOpcode = 3

const (
	opcodeMove byte = 0
	opcodeHalt byte = 1
	opcodeAdd  byte = 2
	opcodeBnz  byte = 3
)

const (
	flagImmediate byte = 0b100
	maskExtra     byte = 0b11
	maskReg       byte = 0b11111
)

// VM executes one program. A VM is single-use: its register file and
// cursor are discarded at halt or error, and nothing survives to the next
// run.
type VM struct {
	r         *reader
	registers *RegisterFile

	logger *zap.Logger
}

type VMOpt func(*VM) *VM

func LoggerOpt(l *zap.Logger) VMOpt {
	return func(vm *VM) *VM {
		vm.logger = l
		return vm
	}
}

// NewVM creates a machine for a full program image: the version byte at
// offset 0 followed by the instruction stream.
func NewVM(data []byte, opts ...VMOpt) *VM {
	vm := &VM{
		r:         &reader{data: data},
		registers: NewRegisterFile(),
		logger:    zap.L(),
	}

	for _, opt := range opts {
		vm = opt(vm)
	}

	vm.logger = vm.logger.Named("vm")

	return vm
}

// Run validates the version byte and then loops fetch-decode-execute until
// HALT or an error. The instruction set permits unbounded loops; bounding
// execution time is the caller's concern.
func (vm *VM) Run() error {
	b, err := vm.r.next()
	if err != nil {
		return ErrMissingVersion
	}
	if b != version.ByteVersion {
		return VersionMismatchError{Version: b}
	}

	for {
		b, err := vm.r.next()
		if err != nil {
			return err
		}

		op := b >> shiftOpcode
		vm.logger.Debug("dispatch",
			zap.Uint8("opcode", op),
			zap.Int("cursor", vm.r.pos-1),
		)

		switch op {
		case opcodeMove:
			if b&flagImmediate == 0 {
				err = vm.movReg(b & maskExtra)
			} else {
				err = vm.movImm()
			}
		case opcodeHalt:
			return nil
		case opcodeAdd:
			if b&flagImmediate == 0 {
				err = vm.addReg(b & maskExtra)
			} else {
				err = vm.addImm(b & maskExtra)
			}
		case opcodeBnz:
			err = vm.bnz()
		default:
			return NoSuchInstructionError{Opcode: op}
		}
		if err != nil {
			return err
		}
	}
}

// Result reads the result register after a successful run.
func (vm *VM) Result() (uint32, error) {
	w, err := vm.registers.Get(ResultReg)
	if err != nil {
		return 0, ErrNoResult
	}
	return w, nil
}

// movReg copies one register to another. extra is the descriptor's low 2
// bits, the high bits of the source id.
func (vm *VM) movReg(extra byte) error {
	b, err := vm.r.next()
	if err != nil {
		return err
	}
	src := packedReg(extra, b)

	w, err := vm.registers.Get(src)
	if err != nil {
		return err
	}
	vm.registers.Set(Reg(b&maskReg), w)
	return nil
}

// movImm writes a 32-bit immediate into a register.
func (vm *VM) movImm() error {
	b, err := vm.r.next()
	if err != nil {
		return err
	}
	w, err := vm.r.word()
	if err != nil {
		return err
	}
	vm.registers.Set(Reg(b&maskReg), w)
	return nil
}

// addReg adds two registers into a third. The destination id sits in the
// top 5 bits of its byte; the low 3 bits are reserved and ignored.
// Overflow wraps.
func (vm *VM) addReg(extra byte) error {
	b, err := vm.r.next()
	if err != nil {
		return err
	}
	src1 := packedReg(extra, b)
	src2 := Reg(b & maskReg)

	d, err := vm.r.next()
	if err != nil {
		return err
	}
	dest := Reg(d >> 3)

	v1, err := vm.registers.Get(src1)
	if err != nil {
		return err
	}
	v2, err := vm.registers.Get(src2)
	if err != nil {
		return err
	}
	vm.registers.Set(dest, v1+v2)
	return nil
}

// addImm adds a 32-bit immediate to a register. Overflow wraps.
func (vm *VM) addImm(extra byte) error {
	b, err := vm.r.next()
	if err != nil {
		return err
	}
	src := packedReg(extra, b)

	w, err := vm.r.word()
	if err != nil {
		return err
	}
	v, err := vm.registers.Get(src)
	if err != nil {
		return err
	}
	vm.registers.Set(Reg(b&maskReg), v+w)
	return nil
}

// bnz branches to an absolute offset when the tested register is nonzero.
// The target word is always decoded, taken or not: the instruction is 6
// bytes long on both paths, and a truncated target fails the run even when
// the branch would not be used.
func (vm *VM) bnz() error {
	b, err := vm.r.next()
	if err != nil {
		return err
	}
	w, err := vm.registers.Get(Reg(b & maskReg))
	if err != nil {
		return err
	}
	target, err := vm.r.word()
	if err != nil {
		return err
	}

	if w == 0 {
		return nil
	}
	if uint64(target) >= uint64(len(vm.r.data)) {
		return NowhereToJumpError{Target: target}
	}

	vm.logger.Debug("branch taken",
		zap.Uint32("target", target),
	)
	vm.r.jump(target)
	return nil
}

// Execute runs a program image and returns the value left in the result
// register.
func Execute(data []byte, opts ...VMOpt) (uint32, error) {
	vm := NewVM(data, opts...)
	if err := vm.Run(); err != nil {
		return 0, err
	}
	return vm.Result()
}

// ExecuteFile executes the contents of the named file.
func ExecuteFile(filename string, opts ...VMOpt) (uint32, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, FileOpenError{Filename: filename, Err: err}
	}
	return Execute(data, opts...)
}
