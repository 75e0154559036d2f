// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression is the compression algorithm applied to the archive.
type Compression string

// Compressions supported by the Linux kernel for the initramfs.
const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionXZ   Compression = "xz"
)

// DefaultCompression is used if nothing else is configured.
const DefaultCompression = CompressionGzip

// ParseCompression returns the [Compression] with the given name.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(name); c {
	case CompressionNone, CompressionGzip, CompressionZstd, CompressionXZ:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// String implements [fmt.Stringer].
func (c Compression) String() string {
	return string(c)
}

// Set implements [flag.Value].
func (c *Compression) Set(s string) error {
	parsed, err := ParseCompression(s)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Compression) UnmarshalText(text []byte) error {
	return c.Set(string(text))
}

// NewWriter returns a writer that compresses into w. The returned writer
// must be closed to flush all data. Closing it does not close w.
func (c Compression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopCloser{w}, nil
	case CompressionGzip:
		writer, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}

		return writer, nil
	case CompressionZstd:
		writer, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return writer, nil
	case CompressionXZ:
		// The kernel's xz decoder supports CRC32 checksums only.
		writer, err := xz.WriterConfig{CheckSum: xz.CRC32}.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}

		return writer, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, string(c))
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
