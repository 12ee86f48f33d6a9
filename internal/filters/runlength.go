package filters

import "errors"

// RunLengthDecode expands PackBits-style run-length data. A length byte n
// below 128 copies the next n+1 bytes, above 128 repeats the next byte
// 257-n times, and 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(data); {
		n := int(data[i])
		i++
		switch {
		case n == 128:
			return out, nil
		case n < 128:
			end := i + n + 1
			if end > len(data) {
				return nil, errors.New("run length: literal run past end of data")
			}
			out = append(out, data[i:end]...)
			i = end
		default:
			if i >= len(data) {
				return nil, errors.New("run length: repeat run past end of data")
			}
			for k := 0; k < 257-n; k++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
