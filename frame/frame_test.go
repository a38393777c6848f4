package frame

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/format"
)

func TestEncodeDecodeRoundTripSmallPayload(t *testing.T) {
	f := &Frame{
		FrameID:     1,
		Kind:        format.FrameText,
		PayloadBytes: []byte("short payload"),
		CreatedAtMs: 1000,
		Metadata: map[string]MetadataValue{
			"source": {Kind: MetaString, Str: "test"},
			"score":  {Kind: MetaFloat64, F64: 0.75},
			"count":  {Kind: MetaInt64, I64: 7},
			"active": {Kind: MetaBool, Bool: true},
		},
	}

	data, err := Encode(f)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, f.Compression)

	got, n, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, f.FrameID, got.FrameID)
	require.Equal(t, f.PayloadBytes, got.PayloadBytes)
	require.Equal(t, f.Metadata, got.Metadata)
}

func TestEncodeSelectsCompressionAboveThreshold(t *testing.T) {
	payload := []byte(strings.Repeat("x", CompressionThreshold))
	f := &Frame{FrameID: 2, Kind: format.FrameText, PayloadBytes: payload}

	_, err := Encode(f)
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZFSE, f.Compression)
}

func TestEncodeDecodeRoundTripLargePayload(t *testing.T) {
	payload := []byte(strings.Repeat("compress me please. ", 100))
	f := &Frame{FrameID: 3, Kind: format.FrameText, PayloadBytes: payload, CreatedAtMs: 5000}

	data, err := Encode(f)
	require.NoError(t, err)

	got, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, payload, got.PayloadBytes)
}

func TestDecodeRejectsTamperedPayload(t *testing.T) {
	f := &Frame{FrameID: 4, Kind: format.FrameText, PayloadBytes: []byte("integrity check")}
	data, err := Encode(f)
	require.NoError(t, err)

	data[len(data)-1] ^= 0xFF
	_, _, err = Decode(data)
	require.Error(t, err)
}

func TestEncodePageDecodePageRoundTrip(t *testing.T) {
	frames := []*Frame{
		{FrameID: 1, Kind: format.FrameText, PayloadBytes: []byte("one")},
		{FrameID: 2, Kind: format.FrameText, PayloadBytes: []byte("two")},
		{FrameID: 3, Kind: format.FrameTombstone, TombstoneOf: 1},
	}

	page, err := EncodePage(frames)
	require.NoError(t, err)

	decoded, err := DecodePage(page)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	require.Equal(t, uint64(1), decoded[0].FrameID)
	require.Equal(t, []byte("one"), decoded[0].PayloadBytes)
	require.Equal(t, uint64(3), decoded[2].FrameID)
	require.Equal(t, uint64(1), decoded[2].TombstoneOf)
}

func TestDecodePageRejectsBadMagic(t *testing.T) {
	page, err := EncodePage([]*Frame{{FrameID: 1, Kind: format.FrameText, PayloadBytes: []byte("x")}})
	require.NoError(t, err)
	page[0] ^= 0xFF

	_, err = DecodePage(page)
	require.Error(t, err)
}

func TestEncodePageEmpty(t *testing.T) {
	page, err := EncodePage(nil)
	require.NoError(t, err)

	decoded, err := DecodePage(page)
	require.NoError(t, err)
	require.Empty(t, decoded)
}
