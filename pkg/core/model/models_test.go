package model

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerUnmarshal_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Runner
	}{
		{"full", `{"id":"a","name":"Alex","isJoining":false,"miles":3.5}`, Runner{ID: "a", Name: "Alex", IsJoining: false, Miles: 3.5}},
		{"missing isJoining", `{"id":"a","name":"Alex","miles":2}`, Runner{ID: "a", Name: "Alex", IsJoining: true, Miles: 2}},
		{"missing miles", `{"id":"a","name":"Alex","isJoining":true}`, Runner{ID: "a", Name: "Alex", IsJoining: true}},
		{"negative miles", `{"id":"a","name":"Alex","isJoining":true,"miles":-4}`, Runner{ID: "a", Name: "Alex", IsJoining: true}},
		{"unknown fields", `{"id":"a","name":"Alex","pace":"7:30"}`, Runner{ID: "a", Name: "Alex", IsJoining: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Runner
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestDayRecordUnmarshal_NullRunners(t *testing.T) {
	var c RosterCollection
	require.NoError(t, json.Unmarshal([]byte(`[{"date":"2024-01-01","runners":null},{"date":"2024-01-02"}]`), &c))

	require.Len(t, c, 2)
	assert.NotNil(t, c[0].Runners)
	assert.Empty(t, c[0].Runners)
	assert.NotNil(t, c[1].Runners)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, c.Dates())
}

func TestRosterCollection_WireFormat(t *testing.T) {
	c := RosterCollection{{Date: "2024-01-01", Runners: []Runner{NewRunner("a", "Alex")}}}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2024-01-01","runners":[{"id":"a","name":"Alex","isJoining":true,"miles":0}]}]`, string(data))
}

func TestDayRecordMarshal_NilRunnersWrittenAsEmpty(t *testing.T) {
	data, err := json.Marshal(DayRecord{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-01","runners":[]}`, string(data))
}
