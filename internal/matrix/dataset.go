package matrix

import (
	"cmp"
	"strings"
)

// paddedWidth is the length every padded string is filled to.
const paddedWidth = 8

// Dataset holds the parallel vectors of one problem size. Values and
// Pointers start out sorted; the string layouts repeat every 256 elements.
type Dataset struct {
	Size int

	// Values holds 0..Size-1.
	Values []uint32
	// Backing is the array Pointers refer into.
	Backing []uint32
	// Pointers is ordered by the value it points at.
	Pointers []*uint32
	// Strings holds one-byte strings (i mod 256), so short and with many
	// duplicates.
	Strings []string
	// Padded holds Strings right-padded with spaces to paddedWidth bytes.
	Padded []string

	// Buffer is the destination of the copy trial.
	Buffer []uint32
}

// NewDataset builds every layout for size elements.
func NewDataset(size int) (*Dataset, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}

	d := &Dataset{
		Size:     size,
		Values:   make([]uint32, size),
		Backing:  make([]uint32, size),
		Pointers: make([]*uint32, size),
		Strings:  make([]string, size),
		Padded:   make([]string, size),
		Buffer:   make([]uint32, size),
	}

	for i := range size {
		d.Values[i] = uint32(i)
		d.Backing[i] = uint32(i)
		d.Pointers[i] = &d.Backing[i]

		s := string([]byte{byte(i)})
		d.Strings[i] = s
		d.Padded[i] = s + strings.Repeat(" ", paddedWidth-len(s))
	}

	return d, nil
}

func comparePointers(a, b *uint32) int {
	return cmp.Compare(*a, *b)
}
