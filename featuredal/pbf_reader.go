package featuredal

import (
	"context"
	"runtime"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

type PBFReader interface {
	Header() (*osmpbf.Header, error)
	Scan() bool
	Object() osm.Object
	Err() error
	FullyScannedBytes() int64
	TotalSize() int64
}

type DefaultPBFReader struct {
	*osmpbf.Scanner
	totalSize int64
}

var _ PBFReader = &DefaultPBFReader{}

// NewDefaultPBFReader decodes an OSM PBF file. The caller closes the reader, then the file.
func NewDefaultPBFReader(ctx context.Context, file gofs.File) (*DefaultPBFReader, errorsx.Error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &DefaultPBFReader{osmpbf.New(ctx, file, runtime.NumCPU()), fileInfo.Size()}, nil
}

func (r *DefaultPBFReader) TotalSize() int64 {
	return r.totalSize
}
