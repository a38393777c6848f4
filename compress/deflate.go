package compress

import (
	"bytes"
	"hash/adler32"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/waxmem/wax/errs"
)

// zlib stream framing: a 2-byte header (CMF/FLG) then a raw DEFLATE
// stream then a 4-byte big-endian Adler-32 of the uncompressed data. This
// is RFC 1950; klauspost/compress/flate implements only the raw RFC 1951
// stream, so DeflateCodec adds the zlib envelope itself to match spec.md
// §4.3's "deflate (zlib stream)".
const (
	zlibCMF = 0x78 // 32K window, deflate method
	zlibFLG = 0x9c // default compression level, no preset dictionary, FCHECK valid for 0x78
)

// DeflateCodec implements format.CompressionDeflate as a zlib stream,
// using klauspost/compress/flate for the inner DEFLATE codec (faster
// than compress/flate, same bitstream).
type DeflateCodec struct{}

var _ Codec = (*DeflateCodec)(nil)

func NewDeflateCodec() DeflateCodec { return DeflateCodec{} }

func (c DeflateCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.WriteByte(zlibCMF)
	buf.WriteByte(zlibFLG)

	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, errs.IO("deflate writer init failed", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, errs.IO("deflate compress failed", err)
	}
	if err := fw.Close(); err != nil {
		return nil, errs.IO("deflate compress failed", err)
	}

	var trailer [4]byte
	sum := adler32.Checksum(data)
	trailer[0] = byte(sum >> 24)
	trailer[1] = byte(sum >> 16)
	trailer[2] = byte(sum >> 8)
	trailer[3] = byte(sum)
	buf.Write(trailer[:])

	out := buf.Bytes()
	if err := checkFit(len(data), len(out)); err != nil {
		return nil, err
	}

	return out, nil
}

func (c DeflateCodec) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) == 0 {
		if uncompressedLen != 0 {
			return nil, errs.IO("decompressed size mismatch for deflate codec", nil)
		}
		return nil, nil
	}
	if len(data) < 6 {
		return nil, errs.IO("deflate stream too short for zlib envelope", nil)
	}
	if data[0] != zlibCMF {
		return nil, errs.IO("deflate stream has unrecognized zlib header", nil)
	}

	fr := flate.NewReader(bytes.NewReader(data[2 : len(data)-4]))
	defer fr.Close()

	out := make([]byte, 0, uncompressedLen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, fr); err != nil {
		return nil, errs.IO("deflate decompress failed", err)
	}

	decoded := buf.Bytes()
	if len(decoded) != uncompressedLen {
		return nil, errs.IO("decompressed size mismatch for deflate codec", nil)
	}

	wantSum := adler32.Checksum(decoded)
	gotSum := uint32(data[len(data)-4])<<24 | uint32(data[len(data)-3])<<16 | uint32(data[len(data)-2])<<8 | uint32(data[len(data)-1])
	if wantSum != gotSum {
		return nil, errs.IO("deflate adler32 checksum mismatch", nil)
	}

	return decoded, nil
}
