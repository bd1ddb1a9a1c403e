package domain

import "strconv"

// Blob is binary content that encodes the way clients expect buffers:
// {"type":"Buffer","data":[...]}.
type Blob []byte

func (b Blob) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	out := make([]byte, 0, 32+len(b)*4)
	out = append(out, `{"type":"Buffer","data":[`...)
	for i, c := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(c), 10)
	}
	out = append(out, "]}"...)
	return out, nil
}
