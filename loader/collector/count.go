package collector

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/KYVENetwork/sumo-dlt/utils"
)

// CountRecords scans the source once for vehicle start tags. The count only
// feeds the progress estimate, so tags inside comments or CDATA are counted too.
func CountRecords(path string) (int64, error) {
	src, err := openSource(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	count, err := countMarkers(src)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", utils.ErrSourceUnavailable, path, err)
	}
	return count, nil
}

func countMarkers(r io.Reader) (int64, error) {
	markerLen := len(recordMarker)
	buf := make([]byte, markerLen+readBufferSize)

	var count int64
	carry := 0
	for {
		n, err := r.Read(buf[carry:])
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return 0, err
		}

		data := buf[:carry+n]
		// a marker needs one byte of lookahead, keep the tail for the next read
		limit := len(data) - markerLen
		if eof {
			limit = len(data)
		}
		if limit < 0 {
			limit = 0
		}

		for i := 0; i < limit; {
			j := bytes.Index(data[i:], recordMarker)
			if j < 0 {
				break
			}
			p := i + j
			if p >= limit {
				break
			}
			if end := p + markerLen; end < len(data) && isTagDelimiter(data[end]) {
				count++
			}
			i = p + 1
		}

		if eof {
			return count, nil
		}
		carry = copy(buf, data[limit:])
	}
}

func isTagDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '/', '>':
		return true
	}
	return false
}
