package morton

// FieldBits is the width of one coordinate in a 3-D key.
const FieldBits = 21

const fieldMask = 1<<FieldBits - 1

// expand3 spreads the low 21 bits of v so that bit i lands on bit 3i.
func expand3(v uint32) uint64 {
	x := uint64(v) & fieldMask
	x = (x | x<<32) & 0x001f00000000ffff
	x = (x | x<<16) & 0x001f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}

// compact3 is the inverse of expand3.
func compact3(x uint64) uint32 {
	x &= 0x1249249249249249
	x = (x ^ x>>2) & 0x10c30c30c30c30c3
	x = (x ^ x>>4) & 0x100f00f00f00f00f
	x = (x ^ x>>8) & 0x001f0000ff0000ff
	x = (x ^ x>>16) & 0x001f00000000ffff
	x = (x ^ x>>32) & fieldMask
	return uint32(x)
}

// Encode interleaves the low 21 bits of x, y and z.
func Encode(x, y, z uint32) uint64 {
	return expand3(x) | expand3(y)<<1 | expand3(z)<<2
}

// Decode is the inverse of Encode.
func Decode(key uint64) (x, y, z uint32) {
	return compact3(key), compact3(key >> 1), compact3(key >> 2)
}

func expand2(v uint32) uint64 {
	x := uint64(v)
	x = (x | x<<16) & 0x0000ffff0000ffff
	x = (x | x<<8) & 0x00ff00ff00ff00ff
	x = (x | x<<4) & 0x0f0f0f0f0f0f0f0f
	x = (x | x<<2) & 0x3333333333333333
	x = (x | x<<1) & 0x5555555555555555
	return x
}

func compact2(x uint64) uint32 {
	x &= 0x5555555555555555
	x = (x ^ x>>1) & 0x3333333333333333
	x = (x ^ x>>2) & 0x0f0f0f0f0f0f0f0f
	x = (x ^ x>>4) & 0x00ff00ff00ff00ff
	x = (x ^ x>>8) & 0x0000ffff0000ffff
	x = (x ^ x>>16) & 0x00000000ffffffff
	return uint32(x)
}

// Encode2 interleaves two full 32-bit fields, x in the even bits.
func Encode2(x, y uint32) uint64 {
	return expand2(x) | expand2(y)<<1
}

// Decode2 is the inverse of Encode2.
func Decode2(key uint64) (x, y uint32) {
	return compact2(key), compact2(key >> 1)
}
