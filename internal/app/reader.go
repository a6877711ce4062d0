package app

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ayaz345/mage-ai/pkg/connector"
)

// BatchReader yields fixed-size batches of NDJSON records. Numbers decode
// as json.Number so integer values survive without float rounding.
type BatchReader struct {
	scanner *bufio.Scanner
	size    int
	line    int
}

func NewBatchReader(r io.Reader, size int) *BatchReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &BatchReader{scanner: scanner, size: size}
}

// Next returns up to size records. An empty batch with a nil error means
// the input is exhausted.
func (b *BatchReader) Next() ([]connector.Record, error) {
	records := make([]connector.Record, 0, b.size)
	for len(records) < b.size && b.scanner.Scan() {
		b.line++
		raw := bytes.TrimSpace(b.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var record connector.Record
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("line %d: decode record: %w", b.line, err)
		}
		records = append(records, record)
	}
	if err := b.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

// ReadAll drains the reader, for small inputs and the plan command.
func (b *BatchReader) ReadAll() ([]connector.Record, error) {
	var all []connector.Record
	for {
		batch, err := b.Next()
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}
