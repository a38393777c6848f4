package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/format"
)

var allKinds = []format.CompressionType{
	format.CompressionNone,
	format.CompressionLZFSE,
	format.CompressionLZ4,
	format.CompressionDeflate,
}

func TestRoundTripAllCodecs(t *testing.T) {
	payload := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			codec, err := CreateCodec(kind, "test")
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decoded, err := codec.Decompress(compressed, len(payload))
			require.NoError(t, err)
			require.Equal(t, payload, decoded)
		})
	}
}

func TestRoundTripEmptyPayload(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			codec, err := CreateCodec(kind, "test")
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decoded, err := codec.Decompress(compressed, 0)
			require.NoError(t, err)
			require.Empty(t, decoded)
		})
	}
}

func TestDecompressRejectsLengthMismatch(t *testing.T) {
	payload := []byte("some payload bytes that compress into something")
	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			codec, err := CreateCodec(kind, "test")
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed, len(payload)+1)
			require.Error(t, err)
		})
	}
}

func TestCreateCodecRejectsUnknownKind(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(0xFF), "test")
	require.Error(t, err)
}

func TestGetCodecReturnsSharedInstance(t *testing.T) {
	c1, err := GetCodec(format.CompressionLZ4)
	require.NoError(t, err)
	c2, err := GetCodec(format.CompressionLZ4)
	require.NoError(t, err)
	require.Same(t, c1, c2)
}

func TestGetCodecRejectsUnknownKind(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0xFF))
	require.Error(t, err)
}

func TestOutputCapFormula(t *testing.T) {
	require.Equal(t, 128, outputCap(0))   // max(128, 0) -> plus128 wins
	require.Equal(t, 400, outputCap(100)) // max(228, 400) -> times4 wins
}

func TestCheckFit(t *testing.T) {
	require.NoError(t, checkFit(100, outputCap(100)))
	require.Error(t, checkFit(100, outputCap(100)+1))
}
