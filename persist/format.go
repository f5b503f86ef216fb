package persist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Snapshot layout, little-endian where fixed-width:
//
//	[Magic "IKS1"] [Version byte] [Kind byte] [Compression byte]
//	[CodecName uvarint len + bytes]
//	[RawLen uvarint] [StoredLen uvarint] [Body bytes]
//	[CRC32-IEEE of stored body, 4 bytes]
//
// The body is the entry stream (see map.go / set.go), optionally
// compressed as a single block. If a block turns out incompressible
// the file records CompressionNone for it, so readers never guess.
const (
	magic   = "IKS1"
	version = 1
)

// Header-declared lengths are untrusted until the checksum has been
// verified, so they never drive an unbounded allocation.
const (
	// maxCodecNameLen bounds the codec-name field; real names are a
	// handful of bytes.
	maxCodecNameLen = 64
	// maxPrealloc caps upfront allocations sized from the header;
	// larger bodies grow only as bytes actually arrive.
	maxPrealloc = 1 << 20
	// lz4MaxRatio is the worst-case LZ4 block expansion factor, used to
	// reject implausible uncompressed sizes.
	lz4MaxRatio = 255
)

type kind uint8

const (
	kindMap kind = 1
	kindSet kind = 2
)

// CompressionType defines the compression applied to the snapshot body.
type CompressionType uint8

const (
	// CompressionNone stores the body uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

var (
	// ErrBadMagic is returned when the input is not an idkit snapshot.
	ErrBadMagic = errors.New("persist: bad magic")
	// ErrUnsupportedVersion is returned for snapshot versions newer
	// than this library understands.
	ErrUnsupportedVersion = errors.New("persist: unsupported snapshot version")
	// ErrWrongKind is returned when e.g. LoadMap is pointed at a set
	// snapshot.
	ErrWrongKind = errors.New("persist: wrong snapshot kind")
	// ErrChecksum is returned when the body checksum does not match.
	ErrChecksum = errors.New("persist: checksum mismatch")
	// ErrUnknownCodec is returned when the snapshot was written with a
	// codec this build does not provide.
	ErrUnknownCodec = errors.New("persist: unknown codec")
	// ErrCorrupt is returned for truncated or malformed entry streams.
	ErrCorrupt = errors.New("persist: corrupt snapshot")
)

// ZSTD encoder/decoder pools; encoders are expensive to construct.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compressBody compresses raw with the requested algorithm. It returns
// the compression actually applied: incompressible bodies fall back to
// CompressionNone.
func compressBody(comp CompressionType, raw []byte) (CompressionType, []byte, error) {
	switch comp {
	case CompressionNone:
		return CompressionNone, raw, nil

	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return 0, nil, fmt.Errorf("persist: lz4 compress: %w", err)
		}
		if n == 0 || n >= len(raw) {
			return CompressionNone, raw, nil
		}
		return CompressionLZ4, dst[:n], nil

	case CompressionZSTD:
		enc := getZstdEncoder()
		dst := enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
		if len(dst) >= len(raw) {
			return CompressionNone, raw, nil
		}
		return CompressionZSTD, dst, nil

	default:
		return 0, nil, fmt.Errorf("persist: unknown compression type %d", comp)
	}
}

// decompressBody reverses compressBody. rawLen is the uncompressed
// size recorded in the header; it is cross-checked against what the
// algorithm could plausibly produce from the stored bytes.
func decompressBody(comp CompressionType, stored []byte, rawLen uint64) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return stored, nil

	case CompressionLZ4:
		if rawLen > lz4MaxRatio*uint64(len(stored))+64 {
			return nil, fmt.Errorf("%w: implausible uncompressed size %d for %d stored bytes", ErrCorrupt, rawLen, len(stored))
		}
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, fmt.Errorf("persist: lz4 decompress: %w", err)
		}
		return dst[:n], nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		dst, err := dec.DecodeAll(stored, make([]byte, 0, min(rawLen, maxPrealloc)))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("persist: zstd decompress: %w", err)
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("persist: unknown compression type %d", comp)
	}
}

// readBlock reads exactly n bytes. The upfront allocation is capped so
// a lying length field fails on the short stream instead of demanding
// gigabytes first.
func readBlock(r io.Reader, n uint64) ([]byte, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("%w: block length %d", ErrCorrupt, n)
	}
	if n <= maxPrealloc {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	var buf bytes.Buffer
	buf.Grow(maxPrealloc)
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSnapshot frames and writes one snapshot.
func writeSnapshot(w io.Writer, k kind, codecName string, comp CompressionType, body []byte) error {
	comp, stored, err := compressBody(comp, body)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magic); err != nil {
		return err
	}
	if err := bw.WriteByte(version); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(k)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(comp)); err != nil {
		return err
	}

	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(codecName)))
	if _, err := bw.Write(buf[:n]); err != nil {
		return err
	}
	if _, err := bw.WriteString(codecName); err != nil {
		return err
	}

	n = binary.PutUvarint(buf[:], uint64(len(body)))
	if _, err := bw.Write(buf[:n]); err != nil {
		return err
	}
	n = binary.PutUvarint(buf[:], uint64(len(stored)))
	if _, err := bw.Write(buf[:n]); err != nil {
		return err
	}
	if _, err := bw.Write(stored); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(buf[:4], crc32.ChecksumIEEE(stored))
	if _, err := bw.Write(buf[:4]); err != nil {
		return err
	}

	return bw.Flush()
}

// readSnapshot reads and verifies one snapshot, returning the codec
// name and the decompressed body.
func readSnapshot(r io.Reader, want kind) (string, []byte, error) {
	br := bufio.NewReader(r)

	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return "", nil, fmt.Errorf("persist: read magic: %w", err)
	}
	if string(head[:]) != magic {
		return "", nil, ErrBadMagic
	}

	ver, err := br.ReadByte()
	if err != nil {
		return "", nil, err
	}
	if ver != version {
		return "", nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, ver)
	}

	k, err := br.ReadByte()
	if err != nil {
		return "", nil, err
	}
	if kind(k) != want {
		return "", nil, fmt.Errorf("%w: got kind %d", ErrWrongKind, k)
	}

	compByte, err := br.ReadByte()
	if err != nil {
		return "", nil, err
	}

	nameLen, err := binary.ReadUvarint(br)
	if err != nil {
		return "", nil, err
	}
	if nameLen > maxCodecNameLen {
		return "", nil, fmt.Errorf("%w: codec name length %d", ErrCorrupt, nameLen)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return "", nil, err
	}

	rawLen, err := binary.ReadUvarint(br)
	if err != nil {
		return "", nil, err
	}
	storedLen, err := binary.ReadUvarint(br)
	if err != nil {
		return "", nil, err
	}

	stored, err := readBlock(br, storedLen)
	if err != nil {
		return "", nil, fmt.Errorf("persist: read body: %w", err)
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(br, crcBuf[:]); err != nil {
		return "", nil, fmt.Errorf("persist: read checksum: %w", err)
	}
	if binary.LittleEndian.Uint32(crcBuf[:]) != crc32.ChecksumIEEE(stored) {
		return "", nil, ErrChecksum
	}

	body, err := decompressBody(CompressionType(compByte), stored, rawLen)
	if err != nil {
		return "", nil, err
	}
	if uint64(len(body)) != rawLen {
		return "", nil, fmt.Errorf("%w: body length %d does not match header %d", ErrCorrupt, len(body), rawLen)
	}

	return string(name), body, nil
}
