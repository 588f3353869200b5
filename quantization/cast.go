package quantization

// Number is any built-in integer or float type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Cast converts in element-wise with Go conversion semantics.
func Cast[Out, In Number](in []In) []Out {
	out := make([]Out, len(in))
	for i, v := range in {
		out[i] = Out(v)
	}
	return out
}

// CastAxes applies Cast to every axis.
func CastAxes[Out, In Number](in [][]In) [][]Out {
	out := make([][]Out, len(in))
	for i, axis := range in {
		out[i] = Cast[Out](axis)
	}
	return out
}
