package core

// Checksum computes the RFC 1071 Internet checksum of data.
// An odd trailing byte is summed as if followed by a zero byte, the slice is never extended.
func Checksum(data []byte) uint16 {
	return ^fold(data)
}

// ValidChecksum reports whether data, with its checksum field filled in, sums to all ones.
func ValidChecksum(data []byte) bool {
	return fold(data) == 0xffff
}

// fold returns the one's-complement sum of data folded to 16 bits.
func fold(data []byte) uint16 {
	var sum uint32

	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(data[i])<<8 | uint32(data[i+1])
	}

	if n%2 == 1 {
		sum += uint32(data[n-1]) << 8
	}

	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}

	return uint16(sum)
}
