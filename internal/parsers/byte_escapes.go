package parsers

import "bytes"

const (
	escSlash = '\\'
	escX     = 'x'
)

// decodeByteEscapes replaces well-formed \xHH escape sequences with the
// corresponding byte. Malformed escapes (missing digits, non-hex
// characters, trailing slash) pass through unchanged; this is a
// best-effort decode, not a strict grammar. The returned slice is always
// a fresh copy.
func decodeByteEscapes(input []byte) []byte {
	// Most queries carry no escapes; the extra scan is cheaper than
	// copying byte by byte.
	if !bytes.ContainsRune(input, escSlash) {
		out := make([]byte, len(input))
		copy(out, input)
		return out
	}

	result := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		ch := input[i]
		if ch != escSlash {
			result = append(result, ch)
			i++
			continue
		}

		// Possible escape start.
		if i+1 >= len(input) || input[i+1] != escX {
			result = append(result, ch)
			i++
			continue
		}

		switch {
		case i+3 < len(input):
			a, b := input[i+2], input[i+3]
			if hi, lo, ok := hexPair(a, b); ok {
				result = append(result, 16*hi+lo)
			} else {
				result = append(result, escSlash, escX, a, b)
			}
			i += 4
		case i+2 < len(input):
			result = append(result, escSlash, escX, input[i+2])
			i += 3
		default:
			result = append(result, escSlash, escX)
			i += 2
		}
	}
	return result
}

func hexPair(a, b byte) (byte, byte, bool) {
	hi, okHi := hexDigit(a)
	lo, okLo := hexDigit(b)
	return hi, lo, okHi && okLo
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return 10 + b - 'a', true
	case b >= 'A' && b <= 'F':
		return 10 + b - 'A', true
	default:
		return 0, false
	}
}
