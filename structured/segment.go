package structured

import (
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/segment"
)

// Encode serializes the store's live (committed) tables into one
// structured_snapshot_v1 segment body. Staged-but-uncommitted mutations
// are never persisted directly — they reach disk only via the WAL,
// replayed back into staging on reopen.
func (s *Store) Encode() []byte {
	enc := codec.NewEncoder(4096)

	enc.PutU64(uint64(len(s.entities)))
	for row, e := range s.entities {
		enc.PutU64(row)
		enc.PutString(string(e.Key))
		enc.PutString(e.Kind)
	}

	enc.PutU64(uint64(len(s.predicates)))
	for row, p := range s.predicates {
		enc.PutU64(row)
		enc.PutString(string(p.Key))
	}

	enc.PutU64(uint64(len(s.facts)))
	for _, f := range s.facts {
		enc.PutU64(f.FactRowID)
		enc.PutU64(f.SubjectRow)
		enc.PutU64(f.PredicateRow)
		enc.PutU64(f.IdentityHash)

		enc.PutU64(uint64(len(f.Spans)))
		for _, sp := range f.Spans {
			enc.PutI64(sp.ValidFromMs)
			enc.PutI64(sp.ValidToMs)
			enc.PutI64(sp.SystemFromMs)
			enc.PutI64(sp.SystemToMs)
			sp.Value.encode(enc)
		}

		enc.PutU64(uint64(len(f.Evidence)))
		for _, ev := range f.Evidence {
			enc.PutU64(ev.SourceFrameID)
			enc.PutString(ev.ExtractorID)
			enc.PutString(ev.ExtractorVersion)
			enc.PutI64(ev.AssertedAtMs)
			hasChunk := ev.ChunkIndex != nil
			enc.PutU8(boolByte(hasChunk))
			if hasChunk {
				enc.PutI64(int64(*ev.ChunkIndex))
			}
			hasSpan := ev.UTF8Span != nil
			enc.PutU8(boolByte(hasSpan))
			if hasSpan {
				enc.PutU32(ev.UTF8Span[0])
				enc.PutU32(ev.UTF8Span[1])
			}
			hasConf := ev.Confidence != nil
			enc.PutU8(boolByte(hasConf))
			if hasConf {
				enc.PutF64(*ev.Confidence)
			}
		}
	}

	enc.PutU64(s.nextEntityRow)
	enc.PutU64(s.nextPredRow)
	enc.PutU64(s.nextFactRow)

	return segment.Wrap(format.MagicStructuredSegment, enc.Bytes())
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Decode parses a structured_snapshot_v1 segment produced by Encode.
func Decode(data []byte) (*Store, error) {
	body, err := segment.Unwrap(data, format.MagicStructuredSegment)
	if err != nil {
		return nil, err
	}

	dec := codec.NewDecoder(body)
	s := New()

	entityCount := dec.Count()
	for i := uint64(0); i < entityCount; i++ {
		row := dec.U64()
		key := EntityKey(dec.String())
		kind := dec.String()
		s.entities[row] = entityRow{Key: key, Kind: kind}
		s.entityByKey[key] = row
	}

	predCount := dec.Count()
	for i := uint64(0); i < predCount; i++ {
		row := dec.U64()
		key := PredicateKey(dec.String())
		s.predicates[row] = predicateRow{Key: key}
		s.predByKey[key] = row
	}

	factCount := dec.Count()
	for i := uint64(0); i < factCount; i++ {
		f := Fact{}
		f.FactRowID = dec.U64()
		f.SubjectRow = dec.U64()
		f.PredicateRow = dec.U64()
		f.IdentityHash = dec.U64()

		spanCount := dec.Count()
		f.Spans = make([]Span, 0, spanCount)
		for j := uint64(0); j < spanCount; j++ {
			validFrom := dec.I64()
			validTo := dec.I64()
			systemFrom := dec.I64()
			systemTo := dec.I64()
			value, err := decodeFactValue(dec)
			if err != nil {
				return nil, err
			}
			f.Spans = append(f.Spans, Span{
				ValidFromMs:  validFrom,
				ValidToMs:    validTo,
				SystemFromMs: systemFrom,
				SystemToMs:   systemTo,
				Value:        value,
			})
		}

		evCount := dec.Count()
		f.Evidence = make([]Evidence, 0, evCount)
		for j := uint64(0); j < evCount; j++ {
			ev := Evidence{
				SourceFrameID:    dec.U64(),
				ExtractorID:      dec.String(),
				ExtractorVersion: dec.String(),
				AssertedAtMs:     dec.I64(),
			}
			if dec.U8() != 0 {
				v := int32(dec.I64())
				ev.ChunkIndex = &v
			}
			if dec.U8() != 0 {
				a := dec.U32()
				b := dec.U32()
				ev.UTF8Span = &[2]uint32{a, b}
			}
			if dec.U8() != 0 {
				v := dec.F64()
				ev.Confidence = &v
			}
			f.Evidence = append(f.Evidence, ev)
		}

		if dec.Err() != nil {
			return nil, dec.Err()
		}

		s.facts[f.FactRowID] = f
		s.factByHash[f.IdentityHash] = f.FactRowID
	}

	s.nextEntityRow = dec.U64()
	s.nextPredRow = dec.U64()
	s.nextFactRow = dec.U64()

	if err := dec.Finalize(); err != nil {
		return nil, err
	}

	return s, nil
}
