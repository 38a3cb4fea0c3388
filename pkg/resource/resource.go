// Package resource provides constructors and header inference for
// delimited-text resources.
package resource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

// Local returns a resource on the caller's filesystem.
func Local(path string, cfg core.DialectConfig) *core.Resource {
	return &core.Resource{Path: path, Medium: core.MediumLocal, Dialect: cfg}
}

// ObjectStore returns a cloud-resident resource from an s3:// URI.
func ObjectStore(uri string, cfg core.DialectConfig) *core.Resource {
	return &core.Resource{Path: uri, Medium: core.MediumObjectStore, Dialect: cfg}
}

// RemoteHost returns a resource on a remote host filesystem.
func RemoteHost(path string, cfg core.DialectConfig) *core.Resource {
	return &core.Resource{Path: path, Medium: core.MediumRemoteHost, Dialect: cfg}
}

// FromPath builds a resource, classifying the medium from the path shape:
// s3:// URIs are object-store, host:path specs are remote-host, anything
// else is local.
func FromPath(path string, cfg core.DialectConfig) *core.Resource {
	switch {
	case strings.HasPrefix(path, "s3://"):
		return ObjectStore(path, cfg)
	case looksRemote(path):
		return RemoteHost(path, cfg)
	default:
		return Local(path, cfg)
	}
}

// looksRemote reports whether path has scp-style host:path form. Windows
// drive letters (single character before the colon) do not count.
func looksRemote(path string) bool {
	i := strings.Index(path, ":")
	return i > 1 && !strings.Contains(path[:i], "/")
}

// sampleRows is how many records InferHeader reads beyond the first.
const sampleRows = 20

// InferHeader decides whether a local delimited file starts with a header
// row by comparing the first record's shape against the rows that follow:
// a numeric cell in the first row rules a header out, and a first row
// whose cells are all non-numeric over columns where later rows carry
// numbers rules one in. Files that give no signal are treated as headed,
// matching the common case for exported CSVs.
func InferHeader(path string, cfg core.DialectConfig) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s for header inference: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	if d := cfg.Delimiter; d != "" {
		r.Comma = rune(d[0])
	}
	r.FieldsPerRecord = -1

	first, err := r.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s for header inference: %w", path, err)
	}

	for _, cell := range first {
		if isNumeric(cell) {
			return false, nil
		}
	}

	for i := 0; i < sampleRows; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, fmt.Errorf("reading %s for header inference: %w", path, err)
		}
		for _, cell := range row {
			if isNumeric(cell) {
				return true, nil
			}
		}
	}

	return true, nil
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
