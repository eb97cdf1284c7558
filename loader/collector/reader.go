package collector

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/KYVENetwork/sumo-dlt/schema"
	"github.com/KYVENetwork/sumo-dlt/utils"
)

// Reader is a forward-only stream of timestep groups. Only <timestep>
// elements and their <vehicle> children are decoded, everything else in the
// document is skipped token by token.
type Reader struct {
	path string
	src  io.ReadCloser
	dec  *xml.Decoder

	group schema.TimestepGroup
	done  bool

	// depth of the open elements outside of timestep groups
	depth      int
	rootClosed bool
}

func NewReader(path string) (*Reader, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}

	return &Reader{
		path: path,
		src:  src,
		dec:  xml.NewDecoder(bufio.NewReaderSize(src, readBufferSize)),
	}, nil
}

// Next returns the next timestep group or io.EOF once the document is
// exhausted. The returned group is owned by the reader and is released by
// the following call to Next, callers must not retain it.
func (r *Reader) Next() (*schema.TimestepGroup, error) {
	r.release()
	if r.done {
		return nil, io.EOF
	}

	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			r.done = true
			return nil, io.EOF
		}
		if err != nil {
			return nil, r.malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if r.rootClosed {
				return nil, r.malformed(fmt.Errorf("element <%s> after the root element", t.Name.Local))
			}
			if t.Name.Local != timestepElement {
				r.depth++
				continue
			}
			if err := r.readTimestep(t); err != nil {
				return nil, err
			}
			if r.depth == 0 {
				r.rootClosed = true
			}
			return &r.group, nil
		case xml.EndElement:
			r.depth--
			if r.depth == 0 {
				r.rootClosed = true
			}
		case xml.CharData:
			if r.depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, r.malformed(fmt.Errorf("text outside of the root element"))
			}
		}
	}
}

func (r *Reader) Close() error {
	r.release()
	return r.src.Close()
}

func (r *Reader) readTimestep(start xml.StartElement) error {
	simTime, err := schema.ParseSimulationTime(attr(start, "time"))
	if err != nil {
		return fmt.Errorf("timestep at offset %d: %w", r.dec.InputOffset(), err)
	}
	r.group.Time = simTime

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return r.malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == vehicleElement {
				r.group.Vehicles = append(r.group.Vehicles, schema.RawVehicleRecord{
					Id:    attr(t, "id"),
					Lane:  attr(t, "lane"),
					X:     attr(t, "x"),
					Y:     attr(t, "y"),
					Angle: attr(t, "angle"),
					Type:  attr(t, "type"),
					Speed: attr(t, "speed"),
				})
			}
			if err := r.dec.Skip(); err != nil {
				return r.malformed(err)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// release drops the references held by the previous group and keeps its backing array.
func (r *Reader) release() {
	clear(r.group.Vehicles)
	r.group.Vehicles = r.group.Vehicles[:0]
	r.group.Time = 0
}

func (r *Reader) malformed(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %s: %v", utils.ErrMalformedSource, r.path, err)
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
