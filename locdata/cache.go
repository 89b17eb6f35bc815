package locdata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ngrash/go-tzmap/internal/fsutil"
)

// All multi-octet values of a cache file are big-endian.
var order = binary.BigEndian

// CacheMagic is the four-octet sequence "TZLC" that starts every cache file.
var CacheMagic = [4]byte{'T', 'Z', 'L', 'C'}

// CacheVersion is the cache format written by EncodeCache.
const CacheVersion byte = 1

// CacheMode is the permission of cache files: owner read/write only.
const CacheMode os.FileMode = 0o600

// A cache file is structured as follows:
//
//	+---------------+---+--------------+-----------+
//	|  magic    (4) |ver| reserved (3) | count (4) |
//	+---------------+---+--------------+-----------+
//	|  records            (count x record)         |
//	+----------------------------------------------+
//
// and each record as:
//
//	+-------+-------+-----------+---------------------------------+
//	| x (8) | y (8) | zones (2) | zones x (len (2) | name (len))  |
//	+-------+-------+-----------+---------------------------------+
//
// Coordinates are IEEE 754 binary64 values.
type cacheHeader struct {
	Version  byte
	Reserved [3]byte
	Count    uint32
}

type cacheCoordinate struct {
	X float64
	Y float64
}

// EncodeCache writes the table in cache format to w.
func (t *Table) EncodeCache(w io.Writer) error {
	if uint64(len(t.records)) > math.MaxUint32 {
		return fmt.Errorf("too many records: %d", len(t.records))
	}
	if _, err := w.Write(CacheMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	h := cacheHeader{Version: CacheVersion, Count: uint32(len(t.records))}
	if err := binary.Write(w, order, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.records {
		if err := writeRecord(w, r); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return nil
}

func writeRecord(w io.Writer, r Record) error {
	if err := binary.Write(w, order, cacheCoordinate{r.Coord.X, r.Coord.Y}); err != nil {
		return err
	}
	if len(r.Zones) > math.MaxUint16 {
		return fmt.Errorf("too many zones: %d", len(r.Zones))
	}
	if err := binary.Write(w, order, uint16(len(r.Zones))); err != nil {
		return err
	}
	for _, z := range r.Zones {
		if len(z) > math.MaxUint16 {
			return fmt.Errorf("zone name too long: %d bytes", len(z))
		}
		if err := binary.Write(w, order, uint16(len(z))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, z); err != nil {
			return err
		}
	}
	return nil
}

// DecodeCache reads a table written by EncodeCache.
func DecodeCache(r io.Reader) (*Table, error) {
	magic := make([]byte, len(CacheMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if !bytes.Equal(magic, CacheMagic[:]) {
		return nil, fmt.Errorf("invalid magic: %v", magic)
	}
	var h cacheHeader
	if err := binary.Read(r, order, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if h.Version != CacheVersion {
		return nil, fmt.Errorf("unsupported cache version %d", h.Version)
	}

	t := NewTable()
	for i := uint32(0); i < h.Count; i++ {
		rec, err := readRecord(r)
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		if t.Add(rec) {
			return nil, fmt.Errorf("read record %d: duplicate coordinate %v", i, rec.Coord)
		}
	}
	return t, nil
}

func readRecord(r io.Reader) (Record, error) {
	var (
		c   cacheCoordinate
		n   uint16
		rec Record
	)
	if err := binary.Read(r, order, &c); err != nil {
		return rec, fmt.Errorf("reading coordinate: %w", err)
	}
	rec.Coord = Coordinate{X: c.X, Y: c.Y}
	if err := binary.Read(r, order, &n); err != nil {
		return rec, fmt.Errorf("reading zone count: %w", err)
	}
	if n > 0 {
		rec.Zones = make([]string, n)
	}
	for i := range rec.Zones {
		var l uint16
		if err := binary.Read(r, order, &l); err != nil {
			return rec, fmt.Errorf("reading zone length: %w", err)
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(r, buf); err != nil {
			return rec, fmt.Errorf("reading zone name: %w", err)
		}
		rec.Zones[i] = string(buf)
	}
	return rec, nil
}

// WriteCacheFile overwrites the cache file at path with t.
// The file is left readable and writable by its owner only.
func WriteCacheFile(path string, t *Table) error {
	if err := fsutil.WriteFile(path, CacheMode, t.EncodeCache); err != nil {
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	return nil
}

// ReadCacheFile reads a cache file written by WriteCacheFile.
func ReadCacheFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()
	t, err := DecodeCache(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	return t, nil
}
