package sound

// FourCC renders code as a four-character code such as 'isui'.
// It returns false when any byte falls outside printable ASCII.
func FourCC(code uint32) (string, bool) {
	b := []byte{
		byte(code >> 24),
		byte(code >> 16),
		byte(code >> 8),
		byte(code),
	}
	for _, c := range b {
		if c < 32 || c > 126 {
			return "", false
		}
	}
	return string(b), true
}
