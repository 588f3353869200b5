// Package quantization maps point coordinates to fixed-point integers inside
// an axis-aligned bounding box and back.
//
// Each axis is rescaled independently:
//
//	q = round((v - min) / (max - min) * (2^bits - 1))
//	v = q / (2^bits - 1) * (max - min) + min
//
// The round trip is lossy. For every point and axis the reconstruction error
// is bounded by one quantization step, (max - min) / (2^bits - 1).
//
// An axis with zero extent quantizes to 0 and dequantizes to min.
//
//	bbox, _ := quantization.ComputeBoundingBox(points)
//	q, _ := quantization.New(16)
//	ints, _ := q.Quantize(ctx, points, bbox)
package quantization
