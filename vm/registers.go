package vm

import "fmt"

// Reg identifies one of the 32 machine registers. Decoding guarantees the
// id fits in 5 bits.
type Reg uint8

// ResultReg holds a run's final result. It must be written at least once
// before a successful halt.
const ResultReg Reg = 0

func (r Reg) String() string {
	return fmt.Sprintf("R%d", uint8(r))
}

// RegisterFile is the sparse store backing the machine registers. An entry
// exists only once written, so a register holding zero is observably
// different from one that was never written.
type RegisterFile struct {
	words map[Reg]uint32
}

func NewRegisterFile() *RegisterFile {
	return &RegisterFile{
		words: make(map[Reg]uint32),
	}
}

// Get returns the word stored in r, or NoSuchRegisterError if r was never
// written.
func (f *RegisterFile) Get(r Reg) (uint32, error) {
	w, ok := f.words[r]
	if !ok {
		return 0, NoSuchRegisterError{Reg: r}
	}
	return w, nil
}

// Set unconditionally inserts or overwrites.
func (f *RegisterFile) Set(r Reg, w uint32) {
	f.words[r] = w
}
