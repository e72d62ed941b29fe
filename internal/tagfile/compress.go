package tagfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsZstd reports whether data starts with a Zstandard frame.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Decompress decodes a Zstandard stream.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return dec.DecodeAll(data, nil)
}

// CompressFile writes a Zstandard compressed copy of src to dst.
func CompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		_ = out.Close()
		return err
	}

	if _, err := io.Copy(enc, in); err != nil {
		_ = enc.Close()
		_ = out.Close()

		return fmt.Errorf("failed to compress %s: %w", src, err)
	}

	if err := enc.Close(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
