package codec

// Bounds caps the sizes a Decoder will accept for length-prefixed and
// counted fields, so a corrupted or hostile length prefix can never drive
// an allocation large enough to exhaust memory before a checksum is even
// checked. Defaults match spec.md §4.1.
type Bounds struct {
	MaxStringBytes   uint64
	MaxBlobBytes     uint64
	MaxArrayCount    uint64
	MaxEmbeddingDim  uint64
	MaxTOCBytes      uint64
	MaxFooterScanDistance uint64
}

// DefaultBounds returns the bounds named in spec.md §4.1.
func DefaultBounds() Bounds {
	return Bounds{
		MaxStringBytes:        16 << 20,  // 16 MiB
		MaxBlobBytes:          256 << 20, // 256 MiB
		MaxArrayCount:         10_000_000,
		MaxEmbeddingDim:       1_000_000,
		MaxTOCBytes:           64 << 20, // 64 MiB
		MaxFooterScanDistance: 32 << 20, // 32 MiB
	}
}
