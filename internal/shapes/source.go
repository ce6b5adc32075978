// Package shapes reads county boundary geometry one record at a time and
// normalizes it into simple polygons.
package shapes

import (
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
)

// Shape is one boundary record.
type Shape struct {
	// ID is the raw value of the identifier attribute.
	ID         string
	Properties map[string]string
	Geometry   geom.Geom
}

// Source is a pull iterator over boundary records. It is read once, in
// order, and cannot be rewound:
//
//	for src.Next() {
//		s := src.Shape()
//	}
//	if err := src.Err(); err != nil { ... }
type Source interface {
	Next() bool
	Shape() *Shape
	Err() error
	Close() error
}

// ShapefileSource reads records from an ESRI shapefile.
type ShapefileSource struct {
	dec     *shp.Decoder
	idField string
	fields  []string
	cur     *Shape
	err     error
}

// OpenShapefile opens the shapefile at path. idField names the attribute
// holding the county identifier; extra attribute names are copied into
// Shape.Properties as well.
func OpenShapefile(path, idField string, extra ...string) (*ShapefileSource, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile %s: %w", path, err)
	}
	fields := append([]string{idField}, extra...)
	return &ShapefileSource{dec: dec, idField: idField, fields: fields}, nil
}

// Next decodes the next record.
func (s *ShapefileSource) Next() bool {
	if s.err != nil {
		return false
	}
	g, fields, more := s.dec.DecodeRowFields(s.fields...)
	if !more {
		if err := s.dec.Error(); err != nil {
			s.err = fmt.Errorf("failed to decode shapefile: %w", err)
		}
		s.cur = nil
		return false
	}

	props := make(map[string]string, len(fields))
	for k, v := range fields {
		props[k] = strings.Trim(v, " \x00")
	}
	s.cur = &Shape{ID: props[s.idField], Properties: props, Geometry: g}
	return true
}

// Shape returns the record decoded by the last call to Next.
func (s *ShapefileSource) Shape() *Shape { return s.cur }

// Err returns the first decoding error.
func (s *ShapefileSource) Err() error { return s.err }

// Close releases the underlying files.
func (s *ShapefileSource) Close() error {
	s.dec.Close()
	return nil
}

// SR returns the spatial reference declared in the shapefile's .prj file.
func (s *ShapefileSource) SR() (*proj.SR, error) {
	sr, err := s.dec.SR()
	if err != nil {
		return nil, fmt.Errorf("failed to read shapefile projection: %w", err)
	}
	return sr, nil
}

// SliceSource serves shapes from memory.
type SliceSource struct {
	shapes []*Shape
	pos    int
}

// NewSliceSource creates a Source over shapes.
func NewSliceSource(shapes ...*Shape) *SliceSource {
	return &SliceSource{shapes: shapes, pos: -1}
}

// Next advances to the next shape.
func (s *SliceSource) Next() bool {
	if s.pos+1 >= len(s.shapes) {
		s.pos = len(s.shapes)
		return false
	}
	s.pos++
	return true
}

// Shape returns the current shape.
func (s *SliceSource) Shape() *Shape {
	if s.pos < 0 || s.pos >= len(s.shapes) {
		return nil
	}
	return s.shapes[s.pos]
}

// Err always returns nil.
func (s *SliceSource) Err() error { return nil }

// Close is a no-op.
func (s *SliceSource) Close() error { return nil }
