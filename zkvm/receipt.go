package zkvm

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// TraceRootLen is the encoded length of a Tip5 trace root.
const TraceRootLen = 40

var sealMagic = [4]byte{'Z', 'K', 'S', '1'}

// sealLen is magic | method id | security bits | cycles | trace root | tag.
const sealLen = 4 + 32 + 2 + 8 + TraceRootLen + 32

// Receipt is the output of a proving run: the public journal and the seal
// attesting to it.
type Receipt struct {
	Journal []byte
	Seal    Seal
}

// Seal binds a journal to the program, input and execution trace.
type Seal struct {
	MethodID     MethodID
	SecurityBits uint16
	Cycles       uint64
	TraceRoot    [TraceRootLen]byte
	Tag          [32]byte
}

// MarshalBinary encodes the seal in its fixed wire format.
func (s Seal) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, sealLen)
	buf = append(buf, sealMagic[:]...)
	buf = append(buf, s.MethodID[:]...)
	buf = binary.BigEndian.AppendUint16(buf, s.SecurityBits)
	buf = binary.BigEndian.AppendUint64(buf, s.Cycles)
	buf = append(buf, s.TraceRoot[:]...)
	buf = append(buf, s.Tag[:]...)

	return buf, nil
}

// UnmarshalBinary decodes a seal written by MarshalBinary.
func (s *Seal) UnmarshalBinary(data []byte) error {
	if len(data) != sealLen {
		return fmt.Errorf("%w: seal length %d, want %d", ErrInvalidReceipt, len(data), sealLen)
	}
	if !bytes.Equal(data[:4], sealMagic[:]) {
		return fmt.Errorf("%w: bad seal magic %x", ErrInvalidReceipt, data[:4])
	}

	data = data[4:]
	copy(s.MethodID[:], data[:32])
	data = data[32:]
	s.SecurityBits = binary.BigEndian.Uint16(data[:2])
	data = data[2:]
	s.Cycles = binary.BigEndian.Uint64(data[:8])
	data = data[8:]
	copy(s.TraceRoot[:], data[:TraceRootLen])
	data = data[TraceRootLen:]
	copy(s.Tag[:], data[:32])

	return nil
}

// SealSize is the encoded length of every seal.
func SealSize() int {
	return sealLen
}

// Clone returns a deep copy of r.
func (r *Receipt) Clone() *Receipt {
	return &Receipt{
		Journal: bytes.Clone(r.Journal),
		Seal:    r.Seal,
	}
}

// FlipJournalBit returns a copy of r with one bit of journal byte index
// flipped. Out-of-range positions wrap around the journal; an empty journal
// has the corresponding tag bit flipped instead.
func (r *Receipt) FlipJournalBit(index int, bit uint) *Receipt {
	out := r.Clone()
	if index < 0 {
		index = -index
	}

	mask := byte(1) << (bit % 8)

	if len(out.Journal) == 0 {
		out.Seal.Tag[index%len(out.Seal.Tag)] ^= mask
		return out
	}

	out.Journal[index%len(out.Journal)] ^= mask

	return out
}
