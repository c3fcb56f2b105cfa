package spatial

import "github.com/zlayout/zlayout-go/geometry"

// Encode interleaves the bits of x and y (each treated as an unsigned
// 32-bit integer) into a single 64-bit Morton (Z-order) key, using the
// standard magic-mask cascade. Encoding is injective on the quantized
// grid and preserves spatial locality to within Z-order's known
// jaggedness.
func Encode(x, y uint32) uint64 {
	return interleave(uint64(x)) | (interleave(uint64(y)) << 1)
}

// Decode is the inverse of Encode.
func Decode(code uint64) (x, y uint32) {
	return uint32(deinterleave(code)), uint32(deinterleave(code >> 1))
}

func interleave(v uint64) uint64 {
	v &= 0x00000000FFFFFFFF
	v = (v | (v << 16)) & 0x0000FFFF0000FFFF
	v = (v | (v << 8)) & 0x00FF00FF00FF00FF
	v = (v | (v << 4)) & 0x0F0F0F0F0F0F0F0F
	v = (v | (v << 2)) & 0x3333333333333333
	v = (v | (v << 1)) & 0x5555555555555555
	return v
}

func deinterleave(v uint64) uint64 {
	v &= 0x5555555555555555
	v = (v | (v >> 1)) & 0x3333333333333333
	v = (v | (v >> 2)) & 0x0F0F0F0F0F0F0F0F
	v = (v | (v >> 4)) & 0x00FF00FF00FF00FF
	v = (v | (v >> 8)) & 0x0000FFFF0000FFFF
	v = (v | (v >> 16)) & 0x00000000FFFFFFFF
	return v
}

// EncodePoint quantizes p into [0, 2^32) inside world and encodes the
// result. Points outside world are clamped to its boundary first.
func EncodePoint(p geometry.Point, world geometry.Rectangle) uint64 {
	x, y := quantize(p, world)
	return Encode(x, y)
}

func quantize(p geometry.Point, world geometry.Rectangle) (uint32, uint32) {
	const maxGrid = float64(^uint32(0))
	fx := (p.X - world.MinX()) / world.Width
	fy := (p.Y - world.MinY()) / world.Height
	if world.Width == 0 {
		fx = 0
	}
	if world.Height == 0 {
		fy = 0
	}
	if fx < 0 {
		fx = 0
	} else if fx > 1 {
		fx = 1
	}
	if fy < 0 {
		fy = 0
	} else if fy > 1 {
		fy = 1
	}
	return uint32(fx * maxGrid), uint32(fy * maxGrid)
}
