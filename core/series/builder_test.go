package series

import (
	"errors"
	"iter"
	"math"
	"testing"

	"github.com/huangsam/locgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(deltas ...[3]int64) []schema.CommitRecord {
	out := make([]schema.CommitRecord, len(deltas))
	for i, d := range deltas {
		out[i] = schema.CommitRecord{Time: d[0], Insertions: uint64(d[1]), Deletions: uint64(d[2])}
	}
	return out
}

func values(s schema.Series) []int64 {
	out := make([]int64, len(s))
	for i, sample := range s {
		out[i] = sample.Value
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		input    []schema.CommitRecord
		expected []int64
	}{
		{
			name:     "running sum of deltas",
			input:    records([3]int64{100, 10, 0}, [3]int64{200, 5, 2}, [3]int64{300, 0, 3}),
			expected: []int64{10, 13, 10},
		},
		{
			name:     "negative totals are kept",
			input:    records([3]int64{1, 2, 0}, [3]int64{2, 0, 7}),
			expected: []int64{2, -5},
		},
		{
			name:     "same second commits are not merged",
			input:    records([3]int64{5, 1, 0}, [3]int64{5, 1, 0}, [3]int64{5, 1, 0}),
			expected: []int64{1, 2, 3},
		},
		{
			name:     "empty input",
			input:    nil,
			expected: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, values(got))
			for i, rec := range tt.input {
				assert.Equal(t, rec.Time, got[i].Time)
			}
		})
	}
}

func TestBuild_PrefixSums(t *testing.T) {
	input := records(
		[3]int64{10, 40, 0},
		[3]int64{20, 3, 9},
		[3]int64{20, 0, 0},
		[3]int64{35, 17, 51},
		[3]int64{90, 8, 1},
	)
	got := Build(input)
	require.Len(t, got, len(input))

	var sum int64
	for i, rec := range input {
		sum += int64(rec.Insertions) - int64(rec.Deletions)
		assert.Equal(t, sum, got[i].Value, "sample %d", i)
	}
}

func TestBuild_OversizedCounts(t *testing.T) {
	tests := []struct {
		name     string
		input    []schema.CommitRecord
		expected []int64
	}{
		{
			name:     "insertions above int64 saturate",
			input:    []schema.CommitRecord{{Time: 1, Insertions: math.MaxUint64}},
			expected: []int64{math.MaxInt64},
		},
		{
			name:     "deletions above int64 saturate",
			input:    []schema.CommitRecord{{Time: 1, Deletions: uint64(math.MaxInt64) + 1}},
			expected: []int64{-math.MaxInt64},
		},
		{
			name:     "largest exact count",
			input:    []schema.CommitRecord{{Time: 1, Insertions: math.MaxInt64}, {Time: 2, Deletions: math.MaxInt64}},
			expected: []int64{math.MaxInt64, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, values(Build(tt.input)))
		})
	}
}

func TestBuild_IdempotentReplay(t *testing.T) {
	input := records([3]int64{1, 7, 0}, [3]int64{4, 2, 5}, [3]int64{9, 11, 1})
	assert.Equal(t, Build(input), Build(input))
}

func TestBuildSeq(t *testing.T) {
	t.Run("matches Build", func(t *testing.T) {
		input := records([3]int64{1, 10, 0}, [3]int64{2, 5, 2}, [3]int64{3, 0, 3})
		seq := func(yield func(schema.CommitRecord, error) bool) {
			for _, rec := range input {
				if !yield(rec, nil) {
					return
				}
			}
		}
		got, err := BuildSeq(seq)
		require.NoError(t, err)
		assert.Equal(t, Build(input), got)
	})

	t.Run("upstream error stops the fold", func(t *testing.T) {
		upstream := errors.New("object not found")
		var calls int
		var seq iter.Seq2[schema.CommitRecord, error] = func(yield func(schema.CommitRecord, error) bool) {
			calls++
			if !yield(schema.CommitRecord{Time: 1, Insertions: 3}, nil) {
				return
			}
			calls++
			if !yield(schema.CommitRecord{}, upstream) {
				return
			}
			calls++
			yield(schema.CommitRecord{Time: 3, Insertions: 1}, nil)
		}
		got, err := BuildSeq(seq)
		assert.ErrorIs(t, err, upstream)
		assert.Nil(t, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("empty stream", func(t *testing.T) {
		got, err := BuildSeq(func(func(schema.CommitRecord, error) bool) {})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
