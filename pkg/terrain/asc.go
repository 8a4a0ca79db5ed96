package terrain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ESRI ASCII grid header keys
const (
	ascColumns   = "ncols"
	ascRows      = "nrows"
	ascXCorner   = "xllcorner"
	ascYCorner   = "yllcorner"
	ascXCenter   = "xllcenter"
	ascYCenter   = "yllcenter"
	ascCellSize  = "cellsize"
	ascNoData    = "nodata_value"
	ascMaxHeader = 6
)

// ReadASC parses an ESRI ASCII grid.
func ReadASC(r io.Reader, name string) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)

	header := make(map[string]float64)
	var pending string
	for len(header) < ascMaxHeader && scanner.Scan() {
		word := scanner.Text()
		key := strings.ToLower(word)
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			// first data value, the header is done (NODATA_value is optional)
			pending = word
			break
		}
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: missing value for %q", ErrBadHeader, word)
		}
		value, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadHeader, word, err)
		}
		header[key] = value
	}

	cols, rows := int(header[ascColumns]), int(header[ascRows])
	cellSize := header[ascCellSize]
	if cols <= 0 || rows <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: ncols=%v nrows=%v cellsize=%v", ErrBadHeader, cols, rows, cellSize)
	}
	noData, ok := header[ascNoData]
	if !ok {
		noData = DefaultNoData
	}

	var xMin, yMin float64
	if x, ok := header[ascXCorner]; ok {
		xMin = x
	} else if x, ok := header[ascXCenter]; ok {
		xMin = x - cellSize/2
	} else {
		return nil, fmt.Errorf("%w: missing %s", ErrBadHeader, ascXCorner)
	}
	if y, ok := header[ascYCorner]; ok {
		yMin = y
	} else if y, ok := header[ascYCenter]; ok {
		yMin = y - cellSize/2
	} else {
		return nil, fmt.Errorf("%w: missing %s", ErrBadHeader, ascYCorner)
	}

	g := NewGrid(name, xMin, yMin+float64(rows)*cellSize, rows, cols, cellSize, noData)
	i := 0
	parse := func(word string) error {
		if i >= len(g.Values) {
			return fmt.Errorf("%w: more than %d values", ErrBadData, len(g.Values))
		}
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return fmt.Errorf("%w: value %d: %v", ErrBadData, i, err)
		}
		g.Values[i] = v
		i++
		return nil
	}
	if pending != "" {
		if err := parse(pending); err != nil {
			return nil, err
		}
	}
	for scanner.Scan() {
		if err := parse(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if i != len(g.Values) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrBadData, len(g.Values), i)
	}
	return g, nil
}

// WriteASC writes the grid as ESRI ASCII grid
func WriteASC(w io.Writer, g *Grid) error {
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "ncols %d\n", g.Cols)
	fmt.Fprintf(writer, "nrows %d\n", g.Rows)
	fmt.Fprintf(writer, "xllcorner %v\n", g.XMin)
	fmt.Fprintf(writer, "yllcorner %v\n", g.YMin())
	fmt.Fprintf(writer, "cellsize %v\n", g.CellSize)
	fmt.Fprintf(writer, "NODATA_value %v\n", g.NoData)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if col > 0 {
				writer.WriteByte(' ')
			}
			writer.WriteString(strconv.FormatFloat(g.At(row, col), 'g', -1, 64))
		}
		writer.WriteByte('\n')
	}
	return writer.Flush()
}
