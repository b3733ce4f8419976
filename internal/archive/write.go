package archive

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/tilepath/internal/geo"
)

// WriteOptions controls Write.
type WriteOptions struct {
	// Compress stores regions zstd-compressed.
	Compress bool
	// SkipManifest leaves out the MANIFEST entry.
	SkipManifest bool
}

// Write encodes regions into a zip archive on w.
func Write(w io.Writer, regions map[geo.RegionKey]*geo.Region, opts WriteOptions) error {
	keys := make([]geo.RegionKey, 0, len(regions))
	for k := range regions {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b geo.RegionKey) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	var encoder *zstd.Encoder
	if opts.Compress {
		var err error
		encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		defer encoder.Close()
	}

	zw := zip.NewWriter(w)
	var manifest bytes.Buffer
	for _, key := range keys {
		data := regions[key].Bytes()
		sum := blake2b.Sum256(data)
		fmt.Fprintf(&manifest, "%s %s\n", key, hex.EncodeToString(sum[:]))

		method := zip.Deflate
		if encoder != nil {
			data = encoder.EncodeAll(data, nil)
			method = zip.Store
		}
		ew, err := zw.CreateHeader(&zip.FileHeader{Name: entryName(key, opts.Compress), Method: method})
		if err != nil {
			return fmt.Errorf("creating entry for region %s: %w", key, err)
		}
		if _, err := ew.Write(data); err != nil {
			return fmt.Errorf("writing region %s: %w", key, err)
		}
	}

	if !opts.SkipManifest {
		ew, err := zw.Create(ManifestName)
		if err != nil {
			return fmt.Errorf("creating manifest: %w", err)
		}
		if _, err := ew.Write(manifest.Bytes()); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}
