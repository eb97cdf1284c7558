package collector

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KYVENetwork/sumo-dlt/utils"
	"github.com/klauspost/compress/gzip"
)

const readBufferSize = 1 << 20

// openSource opens a FCD file, transparently decompressing *.gz sources.
func openSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSourceUnavailable, err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(bufio.NewReaderSize(f, readBufferSize))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", utils.ErrSourceUnavailable, path, err)
	}
	return &gzipSource{Reader: gz, file: f}, nil
}

type gzipSource struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipSource) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}
