package core

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name: "echo request header",
			// type=8, code=0, checksum=0, id=1, seq=1
			data:     []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01},
			expected: 0xf7fd,
		},
		{
			name:     "even length",
			data:     []byte{0x00, 0x01, 0x00, 0x02},
			expected: 0xfffc,
		},
		{
			name:     "odd length",
			data:     []byte{0x00, 0x01, 0xf2},
			expected: 0x0dfe,
		},
		{
			name:     "all ones",
			data:     []byte{0xff, 0xff, 0xff, 0xff},
			expected: 0x0000,
		},
		{
			name:     "empty",
			data:     []byte{},
			expected: 0xffff,
		},
		{
			name:     "nil",
			data:     nil,
			expected: 0xffff,
		},
		{
			name:     "single byte",
			data:     []byte{0x45},
			expected: 0xbaff,
		},
		{
			name: "carry folding",
			// 0xffff + 0xffff + 0x0002 = 0x20000 -> 0x0002 folded
			data:     []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x02},
			expected: 0xfffd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Checksum(tt.data), "checksum of %x", tt.data)
		})
	}
}

// TestChecksumAllZeros verifies that zero buffers of any even length sum to 0xffff
func TestChecksumAllZeros(t *testing.T) {
	for _, n := range []int{0, 2, 8, 16, 64, 1500} {
		assert.Equal(t, uint16(0xffff), Checksum(make([]byte, n)), "length %d", n)
	}
}

// TestChecksumInsertedVerifies checks that writing the checksum into its field makes the buffer sum to zero
func TestChecksumInsertedVerifies(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for _, n := range []int{4, 8, 16, 32, 33, 101, 1024} {
		buf := make([]byte, n)
		r.Read(buf)
		buf[2], buf[3] = 0, 0

		binary.BigEndian.PutUint16(buf[2:4], Checksum(buf))

		assert.Zero(t, Checksum(buf), "length %d", n)
		assert.True(t, ValidChecksum(buf), "length %d", n)
	}
}

// TestChecksumOddPadding checks that an odd buffer sums like the same buffer with a zero byte appended
func TestChecksumOddPadding(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for _, n := range []int{1, 3, 17, 255} {
		buf := make([]byte, n, n+1)
		r.Read(buf)

		padded := append(append([]byte{}, buf...), 0)
		assert.Equal(t, Checksum(padded), Checksum(buf), "length %d", n)

		// the spare capacity must not have been written to
		assert.Len(t, buf, n)
		assert.Zero(t, buf[:n+1][n])
	}
}

func TestValidChecksum(t *testing.T) {
	assert.True(t, ValidChecksum([]byte{0x08, 0x00, 0xf7, 0xfd, 0x00, 0x01, 0x00, 0x01}))
	assert.False(t, ValidChecksum([]byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01}))
	assert.True(t, ValidChecksum([]byte{0x00, 0x00, 0xff, 0xff}))
}

func BenchmarkChecksum(b *testing.B) {
	data := make([]byte, 64)
	data[0] = 0x08

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Checksum(data)
	}
}
