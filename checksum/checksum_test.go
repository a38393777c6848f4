package checksum

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum256MatchesStdlib(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	want := sha256.Sum256(data)
	require.Equal(t, want, Sum256(data))
}

func TestHex256IsLowercase(t *testing.T) {
	hex := Hex256([]byte("abc"))
	require.Len(t, hex, 64)
	for _, r := range hex {
		require.False(t, r >= 'A' && r <= 'F', "digest must be lowercase, got %q", hex)
	}
}

func TestVerify(t *testing.T) {
	data := []byte("frame payload bytes")
	sum := Sum256(data)
	require.True(t, Verify(data, sum))
	require.False(t, Verify([]byte("different payload"), sum))
}

func TestVerifyHex(t *testing.T) {
	data := []byte("frame payload bytes")
	hex := Hex256(data)
	require.True(t, VerifyHex(data, hex))
	require.False(t, VerifyHex([]byte("tampered"), hex))
}

func TestDigestStreaming(t *testing.T) {
	d := New()
	n, err := d.Write([]byte("hello, "))
	require.NoError(t, err)
	require.Equal(t, 7, n)
	_, err = d.Write([]byte("world"))
	require.NoError(t, err)

	require.Equal(t, Sum256([]byte("hello, world")), d.Sum())
	require.Equal(t, Hex256([]byte("hello, world")), d.Hex())
}

func TestDigestEmpty(t *testing.T) {
	d := New()
	require.Equal(t, Sum256(nil), d.Sum())
}
