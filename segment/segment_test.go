package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/format"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	body := []byte("segment body bytes")
	wrapped := Wrap(format.MagicFramePageSegment, body)

	got, err := Unwrap(wrapped, format.MagicFramePageSegment)
	require.NoError(t, err)
	require.Equal(t, body, got)
}

func TestWrapUnwrapEmptyBody(t *testing.T) {
	wrapped := Wrap(format.MagicTextIndexSegment, nil)
	got, err := Unwrap(wrapped, format.MagicTextIndexSegment)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUnwrapRejectsWrongMagic(t *testing.T) {
	wrapped := Wrap(format.MagicFramePageSegment, []byte("body"))
	_, err := Unwrap(wrapped, format.MagicTextIndexSegment)
	require.Error(t, err)
}

func TestUnwrapRejectsTruncatedData(t *testing.T) {
	wrapped := Wrap(format.MagicFramePageSegment, []byte("body"))
	_, err := Unwrap(wrapped[:len(wrapped)-2], format.MagicFramePageSegment)
	require.Error(t, err)
}

func TestUnwrapRejectsTamperedBody(t *testing.T) {
	wrapped := Wrap(format.MagicFramePageSegment, []byte("body"))
	wrapped[len(wrapped)-1] ^= 0xFF
	_, err := Unwrap(wrapped, format.MagicFramePageSegment)
	require.Error(t, err)
}

func TestUnwrapRejectsMismatchedBodyLen(t *testing.T) {
	wrapped := Wrap(format.MagicFramePageSegment, []byte("body"))
	// Truncate the data without recomputing the header's body length, so
	// the stored length no longer matches the actual remaining bytes.
	corrupted := append([]byte{}, wrapped...)
	corrupted = corrupted[:len(corrupted)-1]
	_, err := Unwrap(corrupted, format.MagicFramePageSegment)
	require.Error(t, err)
}
