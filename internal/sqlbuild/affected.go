package sqlbuild

import "github.com/ayaz345/mage-ai/pkg/connector"

// RecordsInserted sums the leading integer count fields across every
// result row of the executed command sequence. Update counts are not
// derived on the merge path: callers always see 0 updated, a known
// limitation carried forward deliberately.
func RecordsInserted(results [][]connector.Row) (inserted, updated int64) {
	for _, rows := range results {
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			if n, ok := leadingCount(row[0]); ok {
				inserted += n
			}
		}
	}
	return inserted, 0
}

func leadingCount(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}
