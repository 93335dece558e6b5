package schema_test

import (
	"testing"

	"github.com/huangsam/locgraph/schema"
	"github.com/stretchr/testify/assert"
)

func TestNewSeriesRecords(t *testing.T) {
	s := schema.Series{
		{Time: 1700000000, Value: 12},
		{Time: 1700086400, Value: -3},
	}
	records := schema.NewSeriesRecords(s)
	assert.Equal(t, []schema.SeriesRecord{
		{Time: "2023-11-14T22:13:20Z", LOC: 12},
		{Time: "2023-11-15T22:13:20Z", LOC: -3},
	}, records)
}

func TestNewSeriesRecordsEmpty(t *testing.T) {
	assert.Empty(t, schema.NewSeriesRecords(nil))
}

func TestLocResultFinalLOC(t *testing.T) {
	tests := []struct {
		name     string
		result   schema.LocResult
		expected int64
	}{
		{"empty series", schema.LocResult{}, 0},
		{"single sample", schema.LocResult{Series: schema.Series{{Time: 1, Value: 7}}}, 7},
		{"last sample wins", schema.LocResult{Series: schema.Series{{Time: 1, Value: 7}, {Time: 2, Value: 4}}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.FinalLOC())
		})
	}
}
