package vm

// reader owns the machine's cursor into the program bytes. The cursor only
// moves forward as bytes are consumed; jump repositions it when a branch is
// taken.
type reader struct {
	data []byte
	pos  int
}

// next consumes one byte.
func (r *reader) next() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEndOfProgram
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// word consumes exactly 4 bytes, most significant first. Fewer than 4
// remaining bytes is an error regardless of their content.
func (r *reader) word() (uint32, error) {
	if len(r.data)-r.pos < 4 {
		return 0, ErrTruncatedWord
	}
	var w uint32
	for i := 0; i < 4; i++ {
		w = w<<8 | uint32(r.data[r.pos+i])
	}
	r.pos += 4
	return w, nil
}

// jump moves the cursor to an absolute offset. The caller has already
// checked the offset against the program length.
func (r *reader) jump(target uint32) {
	r.pos = int(target)
}

// packedReg assembles a 5-bit register id split across two bytes: the low
// 2 bits of the descriptor byte carry the id's high bits, and the top 3
// bits of the operand byte carry its low bits. extra is the descriptor's
// low 2 bits, already masked.
func packedReg(extra, operand byte) Reg {
	return Reg(extra<<3 | operand>>5)
}
