package pipeline

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// TopN returns the n rows with the largest values in sortCol, descending.
// The sort is stable, so ties keep their input order. A missing sort column
// fails with *ColumnError.
func TopN(df dataframe.DataFrame, sortCol string, n int) (dataframe.DataFrame, error) {
	if n < 0 {
		return dataframe.DataFrame{}, fmt.Errorf("top-n: limit %d must be non-negative", n)
	}
	if !hasColumn(df.Names(), sortCol) {
		return dataframe.DataFrame{}, &ColumnError{Column: sortCol}
	}

	sorted := df.Arrange(dataframe.RevSort(sortCol))
	if sorted.Err != nil {
		return dataframe.DataFrame{}, sorted.Err
	}
	if n >= sorted.Nrow() {
		return sorted, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := sorted.Subset(idx)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}
