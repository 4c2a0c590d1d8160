package workloads

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Words32 is a digest expressed as big-endian 32-bit words.
type Words32 []uint32

// Equal reports whether both hold the same words.
func (w Words32) Equal(o Words32) bool {
	return slices.Equal(w, o)
}

func (w Words32) String() string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = fmt.Sprintf("%08x", v)
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// Bytes returns the big-endian encoding of w.
func (w Words32) Bytes() []byte {
	b := make([]byte, 0, len(w)*4)
	for _, v := range w {
		b = binary.BigEndian.AppendUint32(b, v)
	}

	return b
}

// WordsFromBytes splits b into big-endian words. A trailing partial word is
// rejected.
func WordsFromBytes(b []byte) (Words32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("journal length %d is not a multiple of 4", len(b))
	}

	w := make(Words32, len(b)/4)
	for i := range w {
		w[i] = binary.BigEndian.Uint32(b[i*4:])
	}

	return w, nil
}

// Bytes is a raw digest.
type Bytes []byte

// Equal reports whether both hold the same bytes.
func (b Bytes) Equal(o Bytes) bool {
	return slices.Equal(b, o)
}

func (b Bytes) String() string {
	return hex.EncodeToString(b)
}

// Elements is a sequence of field elements in canonical form.
type Elements []uint64

// Equal reports whether both hold the same elements.
func (e Elements) Equal(o Elements) bool {
	return slices.Equal(e, o)
}

func (e Elements) String() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = strconv.FormatUint(v, 10)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// Bytes returns the little-endian encoding of e.
func (e Elements) Bytes() []byte {
	b := make([]byte, 0, len(e)*8)
	for _, v := range e {
		b = binary.LittleEndian.AppendUint64(b, v)
	}

	return b
}

// ElementsFromBytes decodes little-endian elements.
func ElementsFromBytes(b []byte) (Elements, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("journal length %d is not a multiple of 8", len(b))
	}

	e := make(Elements, len(b)/8)
	for i := range e {
		e[i] = binary.LittleEndian.Uint64(b[i*8:])
	}

	return e, nil
}
