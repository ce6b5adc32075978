// Package mesh collects extruded solids and writes them out as one binary
// STL file.
package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/votestack/internal/extrude"
	"github.com/unixpickle/model3d/model3d"
)

// ErrFinished is returned when a Writer is used after Finish.
var ErrFinished = errors.New("mesh writer already finished")

// Entry records one solid accepted by a Writer.
type Entry struct {
	FIPS      string
	Part      int
	Triangles int
}

// Writer accumulates triangles in memory until Finish.
type Writer struct {
	triangles []*model3d.Triangle
	written   []Entry
	solids    int
	count     int
	finished  bool
	logger    *slog.Logger
}

// NewWriter creates an empty Writer. logger may be nil.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{logger: logger}
}

// Write appends a solid's surface to the mesh.
func (w *Writer) Write(s *extrude.Solid) error {
	if w.finished {
		return ErrFinished
	}
	w.triangles = append(w.triangles, s.Triangles...)
	w.written = append(w.written, Entry{FIPS: s.FIPS, Part: s.Part, Triangles: len(s.Triangles)})
	w.solids++
	w.count += len(s.Triangles)
	return nil
}

// Written lists the accepted solids in write order.
func (w *Writer) Written() []Entry { return w.written }

// Solids returns the number of solids written so far.
func (w *Writer) Solids() int { return w.solids }

// Triangles returns the number of triangles written so far.
func (w *Writer) Triangles() int { return w.count }

// Finish encodes the accumulated mesh to path as binary STL and releases
// the triangles. The Writer cannot be used afterwards.
func (w *Writer) Finish(path string) (err error) {
	if w.finished {
		return ErrFinished
	}
	w.finished = true

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mesh file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close mesh file: %w", cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	if err := model3d.WriteSTL(buf, w.triangles); err != nil {
		return fmt.Errorf("failed to encode mesh: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write mesh file: %w", err)
	}

	w.logger.Debug("wrote mesh", "path", path, "solids", w.solids, "triangles", len(w.triangles))
	w.triangles = nil
	return nil
}
