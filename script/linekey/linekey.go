// Package linekey allocates the order-preserving byte-string keys
// that lines are stored under. Keys compare with bytes.Compare.
// The first byte of a key is a namespace prefix that Next and
// Between preserve.
package linekey

// First is the key given to the first line of a program.
var First = []byte{0, 1}

// Next returns the shortest key that sorts after key.
func Next(key []byte) []byte {
	for i := 1; i < len(key); i++ {
		if key[i] < 255 {
			next := append([]byte(nil), key[:i+1]...)
			next[i]++
			return next
		}
	}
	return append(append([]byte(nil), key...), 1)
}

// Between returns a short key that sorts between low and high.
// When no key fits strictly between them a copy of low is
// returned.
func Between(low, high []byte) []byte {
	at := func(b []byte, i int) int {
		if i < len(b) {
			return int(b[i])
		}
		return 0
	}
	n := len(low)
	if len(high) > n {
		n = len(high)
	}
	diff := 0
	for i := 1; i < n+1; i++ {
		diff = diff*256 + at(high, i) - at(low, i)
		if diff > 1 {
			// low's first i+1 bytes plus half the gap, carried
			// into the earlier bytes
			key := make([]byte, i+1)
			copy(key, low)
			carry := diff >> 1
			for j := i; j >= 0 && carry > 0; j-- {
				sum := int(key[j]) + carry
				key[j] = byte(sum)
				carry = sum >> 8
			}
			return key
		}
	}
	return append([]byte(nil), low...)
}
