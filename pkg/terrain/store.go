package terrain

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
)

// .trn layout (little endian, inside a snappy framed stream):
//
//	magic "TRN1"
//	uint32 number of tiles
//	per tile: uint16 name length, name, tileHeader, Rows*Cols float64 values
const storeMagic = "TRN1"

// maxTileCells bounds the cell count a tile header may announce.
const maxTileCells = 1 << 30

// values are read in chunks, so memory grows with the data actually present
const valueChunk = 1 << 16

type tileHeader struct {
	XMin     float64
	YMax     float64
	CellSize float64
	NoData   float64
	Rows     uint32
	Cols     uint32
}

// WriteStore writes all tiles of the map in the compressed .trn format
func WriteStore(w io.Writer, m *Map) error {
	sw := snappy.NewBufferedWriter(w)
	if _, err := sw.Write([]byte(storeMagic)); err != nil {
		return err
	}
	if err := binary.Write(sw, binary.LittleEndian, uint32(len(m.tiles))); err != nil {
		return err
	}
	for _, t := range m.tiles {
		if len(t.Name) > math.MaxUint16 {
			return fmt.Errorf("%w: tile name too long", ErrBadHeader)
		}
		if err := binary.Write(sw, binary.LittleEndian, uint16(len(t.Name))); err != nil {
			return err
		}
		if _, err := sw.Write([]byte(t.Name)); err != nil {
			return err
		}
		header := tileHeader{XMin: t.XMin, YMax: t.YMax, CellSize: t.CellSize, NoData: t.NoData, Rows: uint32(t.Rows), Cols: uint32(t.Cols)}
		if err := binary.Write(sw, binary.LittleEndian, header); err != nil {
			return err
		}
		if err := binary.Write(sw, binary.LittleEndian, t.Values); err != nil {
			return err
		}
	}
	return sw.Close()
}

// ReadStore reads a map written by WriteStore
func ReadStore(r io.Reader) (*Map, error) {
	sr := snappy.NewReader(r)
	magic := make([]byte, len(storeMagic))
	if _, err := io.ReadFull(sr, magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if string(magic) != storeMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadHeader, magic)
	}
	var count uint32
	if err := binary.Read(sr, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	tiles := make([]*Grid, 0, min(count, 64))
	for i := uint32(0); i < count; i++ {
		var nameLength uint16
		if err := binary.Read(sr, binary.LittleEndian, &nameLength); err != nil {
			return nil, fmt.Errorf("%w: tile %d: %v", ErrBadHeader, i, err)
		}
		name := make([]byte, nameLength)
		if _, err := io.ReadFull(sr, name); err != nil {
			return nil, fmt.Errorf("%w: tile %d: %v", ErrBadHeader, i, err)
		}
		var header tileHeader
		if err := binary.Read(sr, binary.LittleEndian, &header); err != nil {
			return nil, fmt.Errorf("%w: tile %d: %v", ErrBadHeader, i, err)
		}
		if header.Rows == 0 || header.Cols == 0 || header.CellSize <= 0 {
			return nil, fmt.Errorf("%w: tile %d has %dx%d cells of size %v", ErrBadHeader, i, header.Rows, header.Cols, header.CellSize)
		}
		if cells := uint64(header.Rows) * uint64(header.Cols); cells > maxTileCells {
			return nil, fmt.Errorf("%w: tile %d has %d cells, at most %d are supported", ErrBadHeader, i, cells, maxTileCells)
		}
		values, err := readValues(sr, int(header.Rows)*int(header.Cols))
		if err != nil {
			return nil, fmt.Errorf("%w: tile %q: %v", ErrBadData, name, err)
		}
		tiles = append(tiles, &Grid{
			Name:     string(name),
			XMin:     header.XMin,
			YMax:     header.YMax,
			Rows:     int(header.Rows),
			Cols:     int(header.Cols),
			CellSize: header.CellSize,
			NoData:   header.NoData,
			Values:   values,
		})
	}
	return NewMap(tiles...)
}

func readValues(r io.Reader, n int) ([]float64, error) {
	values := make([]float64, 0, min(n, valueChunk))
	chunk := make([]float64, min(n, valueChunk))
	for len(values) < n {
		part := chunk[:min(len(chunk), n-len(values))]
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return nil, err
		}
		values = append(values, part...)
	}
	return values, nil
}

// Load reads the given files (.asc or .trn) into one map
func Load(paths ...string) (*Map, error) {
	tiles := make([]*Grid, 0, len(paths))
	for _, path := range paths {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		tiles = append(tiles, loaded...)
	}
	return NewMap(tiles...)
}

func loadFile(path string) ([]*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".asc":
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		g, err := ReadASC(file, name)
		if err != nil {
			return nil, err
		}
		return []*Grid{g}, nil
	case ".trn":
		m, err := ReadStore(file)
		if err != nil {
			return nil, err
		}
		return m.Tiles(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Save writes the map to path in the .trn format
func Save(path string, m *Map) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteStore(file, m); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
