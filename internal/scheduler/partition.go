package scheduler

// PartitionOperations splits totalOperations across batchCount batches as
// evenly as possible, spreading the remainder over the first batches. The
// returned sizes always sum to totalOperations.
func PartitionOperations(totalOperations, batchCount int) []int {
	if batchCount <= 0 || totalOperations <= 0 {
		return nil
	}

	base := totalOperations / batchCount
	remainder := totalOperations % batchCount

	sizes := make([]int, batchCount)
	for i := range sizes {
		sizes[i] = base
		if i < remainder {
			sizes[i]++
		}
	}
	return sizes
}
