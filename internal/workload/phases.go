package workload

// Accumulate sums the integers in [0, n) by sequential addition.
//
// The loop is the point: the workload exists to execute n dependent
// additions, not to produce the value. Spec.ExpectedSum yields the same
// number in O(1) for verification.
func Accumulate(n int64) int64 {
	var sum int64
	for i := int64(0); i < n; i++ {
		sum += i
	}
	return sum
}

// FillSequence allocates a sequence of the given length and writes
// stride*i into element i.
func FillSequence(length, stride int) []int64 {
	seq := make([]int64, length)
	for i := range seq {
		seq[i] = int64(stride) * int64(i)
	}
	return seq
}
