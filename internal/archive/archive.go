// Package archive reads and writes collision region archives.
//
// An archive is a zip file with one entry per region named
// "<regionX>_<regionY>", holding the raw region bitset, or
// "<regionX>_<regionY>.zst" holding it zstd-compressed. An optional
// MANIFEST entry lists the blake2b-256 of every region's raw bytes.
package archive

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/tilepath/internal/geo"
)

// ManifestName is the name of the checksum entry.
const ManifestName = "MANIFEST"

const zstdExt = ".zst"

var (
	ErrBadEntryName     = errors.New("archive: bad region entry name")
	ErrChecksumMismatch = errors.New("archive: region checksum mismatch")
)

// Stats describes a loaded archive.
type Stats struct {
	Regions    int
	Compressed int
	Skipped    int
	RawBytes   int64
	Verified   bool
}

// Load reads the archive at path into a flag store.
func Load(path string) (*geo.FlagStore, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening collision archive %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("stat collision archive %s: %w", path, err)
	}

	store, stats, err := Read(f, info.Size())
	if err != nil {
		return nil, stats, fmt.Errorf("reading collision archive %s: %w", path, err)
	}

	slog.Info("collision archive loaded",
		"path", path,
		"regions", stats.Regions,
		"compressed", stats.Compressed,
		"skipped", stats.Skipped,
		"raw_bytes", stats.RawBytes,
		"verified", stats.Verified)
	return store, stats, nil
}

// Read decodes an archive of the given size into a flag store.
func Read(r io.ReaderAt, size int64) (*geo.FlagStore, Stats, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening zip: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	var (
		stats    Stats
		manifest map[geo.RegionKey][]byte
		regions  = make(map[geo.RegionKey]*geo.Region)
		raw      = make(map[geo.RegionKey][]byte)
	)

	for _, f := range zr.File {
		name := f.Name
		if f.FileInfo().IsDir() || strings.Contains(name, "/") {
			slog.Warn("skip archive entry (not a region)", "entry", name)
			stats.Skipped++
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, stats, err
		}

		if name == ManifestName {
			if manifest, err = parseManifest(data); err != nil {
				return nil, stats, err
			}
			continue
		}

		base, compressed := strings.CutSuffix(name, zstdExt)
		if !strings.Contains(base, "_") {
			slog.Warn("skip archive entry (not a region)", "entry", name)
			stats.Skipped++
			continue
		}
		key, err := ParseKey(base)
		if err != nil {
			return nil, stats, err
		}
		if _, dup := regions[key]; dup {
			return nil, stats, fmt.Errorf("region %s: duplicate entry %s", key, name)
		}

		if compressed {
			data, err = decoder.DecodeAll(data, nil)
			if err != nil {
				return nil, stats, fmt.Errorf("decompressing %s: %w", name, err)
			}
			stats.Compressed++
		}

		region, err := geo.LoadRegion(key.X, key.Y, data)
		if err != nil {
			return nil, stats, fmt.Errorf("parsing region %s: %w", name, err)
		}
		regions[key] = region
		raw[key] = data
		stats.Regions++
		stats.RawBytes += int64(len(data))
	}

	if manifest != nil {
		if err := verify(manifest, raw); err != nil {
			return nil, stats, err
		}
		stats.Verified = true
	}

	keys := make([]geo.RegionKey, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	store, err := geo.NewFlagStore(geo.ExtentOf(keys), regions)
	if err != nil {
		return nil, stats, err
	}
	return store, stats, nil
}

// ParseKey parses a "<regionX>_<regionY>" entry name.
func ParseKey(name string) (geo.RegionKey, error) {
	xs, ys, ok := strings.Cut(name, "_")
	if !ok {
		return geo.RegionKey{}, fmt.Errorf("%w: %q", ErrBadEntryName, name)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil || x < 0 || y < 0 {
		return geo.RegionKey{}, fmt.Errorf("%w: %q", ErrBadEntryName, name)
	}
	return geo.RegionKey{X: x, Y: y}, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", f.Name, err)
	}
	return data, nil
}

func parseManifest(data []byte) (map[geo.RegionKey][]byte, error) {
	sums := make(map[geo.RegionKey][]byte)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("manifest line %d: want 2 fields, got %d", line, len(fields))
		}
		key, err := ParseKey(fields[0])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", line, err)
		}
		sum, err := hex.DecodeString(fields[1])
		if err != nil || len(sum) != blake2b.Size256 {
			return nil, fmt.Errorf("manifest line %d: bad checksum %q", line, fields[1])
		}
		sums[key] = sum
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return sums, nil
}

func verify(manifest map[geo.RegionKey][]byte, raw map[geo.RegionKey][]byte) error {
	for key, want := range manifest {
		data, ok := raw[key]
		if !ok {
			return fmt.Errorf("%w: region %s listed but missing", ErrChecksumMismatch, key)
		}
		got := blake2b.Sum256(data)
		if !bytes.Equal(got[:], want) {
			return fmt.Errorf("%w: region %s", ErrChecksumMismatch, key)
		}
	}
	for key := range raw {
		if _, ok := manifest[key]; !ok {
			return fmt.Errorf("%w: region %s not listed", ErrChecksumMismatch, key)
		}
	}
	return nil
}

// entryName returns the archive entry name for key.
func entryName(key geo.RegionKey, compress bool) string {
	if compress {
		return key.String() + zstdExt
	}
	return key.String()
}
