package fbptree

import "bytes"

// fixedKey copies key into a KMax-length, zero-padded buffer, truncating
// to KMax-1 bytes first. Oversize keys are silently truncated, not
// rejected.
func fixedKey(key []byte, cfg *Config) []byte {
	buf := make([]byte, cfg.KMax)
	n := len(key)
	if n > cfg.KMax-1 {
		n = cfg.KMax - 1
	}
	copy(buf, key[:n])
	return buf
}

// fixedValue copies value into a VMax-length, zero-padded buffer,
// truncating to VMax-1 bytes first.
func fixedValue(value []byte, cfg *Config) []byte {
	buf := make([]byte, cfg.VMax)
	n := len(value)
	if n > cfg.VMax-1 {
		n = cfg.VMax - 1
	}
	copy(buf, value[:n])
	return buf
}

// fixedCompare orders two fixed-width, zero-padded buffers byte-wise; the
// zero pad sorts before any other byte.
func fixedCompare(a, b []byte) int {
	return bytes.Compare(a, b)
}

func fixedEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// trimPadding strips the zero padding fixedKey/fixedValue added, for
// returning a caller-facing byte slice from GetRange.
func trimPadding(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}
