package persist

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/stockroom/internal/inventory"
)

var binaryMagic = []byte("STKR")

const binaryVersion byte = 1

// binaryFile is the gob payload. Prices use decimal's own binary encoding so
// they round-trip with their exact scale.
type binaryFile struct {
	Records []inventory.Record
}

// BinaryAdapter stores the whole catalog as one opaque blob.
type BinaryAdapter struct {
	path string
	log  *slog.Logger
}

// NewBinaryAdapter creates a binary adapter.
func NewBinaryAdapter(path string, log *slog.Logger) *BinaryAdapter {
	return &BinaryAdapter{path: path, log: log}
}

func (a *BinaryAdapter) Path() string       { return a.path }
func (a *BinaryAdapter) Strategy() Strategy { return StrategyBinary }

// Load decodes the blob. A missing file yields no records; any decoding
// problem is returned as *FormatError.
func (a *BinaryAdapter) Load(ctx context.Context) ([]inventory.Record, error) {
	ok, err := exists(a.path)
	if err != nil || !ok {
		return nil, err
	}

	var data []byte
	err = withReadLock(ctx, a.path, func() error {
		var err error
		data, err = os.ReadFile(a.path)
		if err != nil {
			return &IOError{Op: "read", Path: a.path, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records, err := decodeBinary(data, a.path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("catalog loaded", "records", len(records))
	return records, nil
}

// Save overwrites the blob with records.
func (a *BinaryAdapter) Save(ctx context.Context, records []inventory.Record) error {
	data, err := encodeBinary(records)
	if err != nil {
		return fmt.Errorf("save %s: %w", a.path, err)
	}
	if err := ensureDir(a.path); err != nil {
		return err
	}
	err = withFileLock(ctx, a.path, func() error {
		return writeAtomic(a.path, data)
	})
	if err != nil {
		return err
	}
	a.log.Debug("catalog saved", "records", len(records), "bytes", len(data))
	return nil
}

func encodeBinary(records []inventory.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(binaryMagic)
	buf.WriteByte(binaryVersion)
	if err := gob.NewEncoder(&buf).Encode(binaryFile{Records: records}); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBinary(data []byte, path string) ([]inventory.Record, error) {
	header := len(binaryMagic) + 1
	if len(data) < header || !bytes.Equal(data[:len(binaryMagic)], binaryMagic) {
		return nil, &FormatError{Path: path, Reason: "not a stockroom catalog file"}
	}
	if v := data[len(binaryMagic)]; v != binaryVersion {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unsupported catalog version %d", v)}
	}

	var file binaryFile
	if err := gob.NewDecoder(bytes.NewReader(data[header:])).Decode(&file); err != nil {
		return nil, &FormatError{Path: path, Reason: "corrupt catalog data", Err: err}
	}
	for i, r := range file.Records {
		if err := inventory.Validate(r); err != nil {
			return nil, &FormatError{Path: path, Line: i + 1, Reason: "invalid record", Err: err}
		}
	}
	return file.Records, nil
}
