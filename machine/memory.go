package machine

import "github.com/dextercai/mc8/isa"

// Memory is the machine's entire addressable space: a flat, fixed-size
// byte array with no paging and no bank switching.
type Memory [isa.ImageSize]byte

// Load reads the byte at addr.
func (m Memory) Load(addr byte) byte {
	return m[addr]
}

// LoadSigned reads the byte at addr as a signed relative displacement.
func (m Memory) LoadSigned(addr byte) int8 {
	return int8(m[addr])
}

// Store writes v to addr.
func (m *Memory) Store(addr byte, v byte) {
	m[addr] = v
}

// NewMemoryFromImage copies a 256-byte assembled image into a fresh
// Memory value.
func NewMemoryFromImage(image [isa.ImageSize]byte) Memory {
	return Memory(image)
}
