package grid

// MortonKey interleaves the low 21 bits of each cell coordinate into a
// Z-order key, so that cells close in space sort close in memory.
// Negative coordinates are clamped to zero; they can only occur for
// positions outside the grid box, which keep an arbitrary but stable
// position at the low end of the curve.
func MortonKey(ix, iy, iz int) uint64 {
	return spread(clampCoord(ix)) | spread(clampCoord(iy))<<1 | spread(clampCoord(iz))<<2
}

func clampCoord(v int) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// spread distributes the low 21 bits of v two positions apart.
func spread(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | v<<32) & 0x1f00000000ffff
	v = (v | v<<16) & 0x1f0000ff0000ff
	v = (v | v<<8) & 0x100f00f00f00f00f
	v = (v | v<<4) & 0x10c30c30c30c30c3
	v = (v | v<<2) & 0x1249249249249249
	return v
}
