package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

func TestAppendAssignsDenseIDs(t *testing.T) {
	s := NewStore(nil)

	f1 := s.Append(format.FrameText, []byte("a"), nil, 1, 0, 0)
	f2 := s.Append(format.FrameText, []byte("b"), nil, 2, 0, 0)

	require.EqualValues(t, 0, f1.FrameID)
	require.EqualValues(t, 1, f2.FrameID)
	require.EqualValues(t, 2, s.NextFrameID())
}

func TestGetSeesStagedWrites(t *testing.T) {
	s := NewStore(nil)
	f := s.Append(format.FrameText, []byte("staged"), nil, 1, 0, 0)

	got, err := s.Get(f.FrameID)
	require.NoError(t, err)
	require.Equal(t, []byte("staged"), got.PayloadBytes)
}

func TestGetNotFoundForUnknownID(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Get(99)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTombstoneHidesFrameAfterPublish(t *testing.T) {
	s := NewStore(nil)
	f := s.Append(format.FrameText, []byte("to be forgotten"), nil, 1, 0, 0)
	s.Publish()

	s.Tombstone(f.FrameID, 2)
	s.Publish()

	_, err := s.Get(f.FrameID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRangeScanExcludesTombstonedAndStagedTombstones(t *testing.T) {
	s := NewStore(nil)
	f1 := s.Append(format.FrameText, []byte("keep"), nil, 1, 0, 0)
	f2 := s.Append(format.FrameText, []byte("drop"), nil, 2, 0, 0)
	s.Publish()

	s.Tombstone(f2.FrameID, 3)

	live := s.RangeScan(func(Frame) bool { return true })
	require.Len(t, live, 1)
	require.Equal(t, f1.FrameID, live[0].FrameID)
}

func TestPublishMovesStagedToCommitted(t *testing.T) {
	s := NewStore(nil)
	s.Append(format.FrameText, []byte("a"), nil, 1, 0, 0)
	require.Len(t, s.Staged(), 1)

	s.Publish()
	require.Empty(t, s.Staged())
	require.Len(t, s.RangeScan(func(Frame) bool { return true }), 1)
}

func TestRollbackDiscardsStagedAndRestoresNextID(t *testing.T) {
	s := NewStore(nil)
	s.Append(format.FrameText, []byte("a"), nil, 1, 0, 0)
	require.EqualValues(t, 1, s.NextFrameID())

	s.Rollback()
	require.EqualValues(t, 0, s.NextFrameID())
	require.Empty(t, s.Staged())
}

func TestNewStoreAppliesLoadedTombstones(t *testing.T) {
	loaded := []Frame{
		{FrameID: 0, Kind: format.FrameText},
		{FrameID: 1, Kind: format.FrameTombstone, TombstoneOf: 0},
	}
	s := NewStore(loaded)

	_, err := s.Get(0)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.EqualValues(t, 2, s.NextFrameID())
}

func TestReplayAppendPreservesFrameID(t *testing.T) {
	s := NewStore(nil)
	s.ReplayAppend(Frame{FrameID: 41, Kind: format.FrameText, PayloadBytes: []byte("resumed")})

	got, err := s.Get(41)
	require.NoError(t, err)
	require.Equal(t, []byte("resumed"), got.PayloadBytes)
	require.EqualValues(t, 42, s.NextFrameID())
}
