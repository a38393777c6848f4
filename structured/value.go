package structured

import (
	"strconv"

	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// FactValue is the tagged union a fact's object may hold, per spec.md
// §3: string, int64, float64, bool, bytes, timeMs, or entity-ref (a row
// ID into the entities table).
type FactValue struct {
	Kind      format.FactValueKind
	Str       string
	I64       int64
	F64       float64
	Bool      bool
	Bytes     []byte
	TimeMs    int64
	EntityRef uint64
}

// canonicalString renders v deterministically for Equal. Two FactValues
// that compare equal must render identically here.
func (v FactValue) canonicalString() string {
	switch v.Kind {
	case format.FactValueString:
		return v.Str
	case format.FactValueInt64:
		return strconv.FormatInt(v.I64, 10)
	case format.FactValueFloat64:
		return strconv.FormatFloat(codec.CanonicalFloat64(v.F64), 'g', -1, 64)
	case format.FactValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case format.FactValueBytes:
		return string(v.Bytes)
	case format.FactValueTimeMs:
		return strconv.FormatInt(v.TimeMs, 10)
	case format.FactValueEntityRef:
		return strconv.FormatUint(v.EntityRef, 10)
	default:
		return ""
	}
}

// Equal reports whether v and other are the same value, used by upsert
// conflict resolution to decide between "append evidence" and "open a
// new span."
func (v FactValue) Equal(other FactValue) bool {
	return v.Kind == other.Kind && v.canonicalString() == other.canonicalString()
}

func (v FactValue) encode(enc *codec.Encoder) {
	enc.PutU8(uint8(v.Kind))
	switch v.Kind {
	case format.FactValueString:
		enc.PutString(v.Str)
	case format.FactValueInt64:
		enc.PutI64(v.I64)
	case format.FactValueFloat64:
		enc.PutF64(v.F64)
	case format.FactValueBool:
		b := uint8(0)
		if v.Bool {
			b = 1
		}
		enc.PutU8(b)
	case format.FactValueBytes:
		enc.PutBytes(v.Bytes)
	case format.FactValueTimeMs:
		enc.PutI64(v.TimeMs)
	case format.FactValueEntityRef:
		enc.PutU64(v.EntityRef)
	}
}

func decodeFactValue(dec *codec.Decoder) (FactValue, error) {
	v := FactValue{Kind: format.FactValueKind(dec.U8())}
	switch v.Kind {
	case format.FactValueString:
		v.Str = dec.String()
	case format.FactValueInt64:
		v.I64 = dec.I64()
	case format.FactValueFloat64:
		v.F64 = dec.F64()
	case format.FactValueBool:
		v.Bool = dec.U8() != 0
	case format.FactValueBytes:
		v.Bytes = dec.Bytes()
	case format.FactValueTimeMs:
		v.TimeMs = dec.I64()
	case format.FactValueEntityRef:
		v.EntityRef = dec.U64()
	default:
		return FactValue{}, errs.Encoding("unknown fact value kind")
	}
	if dec.Err() != nil {
		return FactValue{}, dec.Err()
	}
	return v, nil
}
