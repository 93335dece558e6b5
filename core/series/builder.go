package series

import (
	"iter"
	"math"

	"github.com/huangsam/locgraph/schema"
)

// Build folds commit records, oldest first, into a cumulative line count series.
// Each record yields exactly one sample; nothing is skipped, merged or reordered.
func Build(records []schema.CommitRecord) schema.Series {
	out := make(schema.Series, 0, len(records))
	var loc int64
	for _, rec := range records {
		loc = accumulate(loc, rec)
		out = append(out, schema.Sample{Time: rec.Time, Value: loc})
	}
	return out
}

// BuildSeq is Build over a lazily produced stream. The first error from the
// stream stops the fold and is returned as is.
func BuildSeq(records iter.Seq2[schema.CommitRecord, error]) (schema.Series, error) {
	out := schema.Series{}
	var loc int64
	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		loc = accumulate(loc, rec)
		out = append(out, schema.Sample{Time: rec.Time, Value: loc})
	}
	return out, nil
}

// accumulate applies one commit's delta. The result is not clamped at zero.
func accumulate(loc int64, rec schema.CommitRecord) int64 {
	loc += lineCount(rec.Insertions)
	loc -= lineCount(rec.Deletions)
	return loc
}

// lineCount converts a diff stat count, saturating at math.MaxInt64 instead
// of wrapping negative.
func lineCount(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
