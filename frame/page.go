package frame

import (
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/segment"
)

// EncodePage concatenates the on-disk records for frames (in append
// order) into one frame_page segment body.
func EncodePage(frames []*Frame) ([]byte, error) {
	var body []byte
	for _, f := range frames {
		rec, err := Encode(f)
		if err != nil {
			return nil, err
		}
		body = append(body, rec...)
	}
	return segment.Wrap(format.MagicFramePageSegment, body), nil
}

// DecodePage unwraps a frame_page segment and decodes every record in
// it, in on-disk order.
func DecodePage(data []byte) ([]Frame, error) {
	body, err := segment.Unwrap(data, format.MagicFramePageSegment)
	if err != nil {
		return nil, err
	}

	var frames []Frame
	pos := 0
	for pos < len(body) {
		f, n, err := Decode(body[pos:])
		if err != nil {
			return nil, errs.AtOffset(err, int64(pos), int64(len(body)-pos))
		}
		if n == 0 {
			return nil, errs.InvalidSegment("frame_page", "zero-length record decode, would loop forever")
		}
		frames = append(frames, f)
		pos += n
	}

	return frames, nil
}
