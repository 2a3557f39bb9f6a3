package metadata

import (
	"context"
	"log/slog"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"geotag/internal/logging"
)

// Native decodes EXIF GPS tags without external tools. Only JPEG and TIFF
// based formats carry a readable EXIF block.
type Native struct {
	logger *slog.Logger
}

var _ Extractor = (*Native)(nil)

// NewNative constructs the in-process extractor.
func NewNative(logger *slog.Logger) *Native {
	return &Native{logger: logging.NewComponentLogger(logger, "exif")}
}

// Extract decodes each file. Files that cannot be decoded yield a record with
// only SourceFile set.
func (n *Native) Extract(ctx context.Context, files []string) ([]Record, error) {
	out := make([]Record, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, n.decode(file))
	}
	return out, nil
}

func (n *Native) decode(path string) Record {
	rec := Record{TagSourceFile: path}
	f, err := os.Open(path)
	if err != nil {
		n.logger.Debug("open failed", logging.String("file", path), logging.Error(err))
		return rec
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		n.logger.Debug("no exif data", logging.String("file", path), logging.Error(err))
		return rec
	}
	if lat, lon, err := x.LatLong(); err == nil {
		rec[TagLatitude] = lat
		rec[TagLongitude] = lon
	}
	if taken, err := x.DateTime(); err == nil {
		rec[TagDateTimeOriginal] = taken.Format("2006:01:02 15:04:05")
	}
	return rec
}
