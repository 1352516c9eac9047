package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "5", 5, false},
		{"decimal", "3.1", 3.1, false},
		{"zero", "0", 0, false},
		{"surrounding space", " 2.5 ", 2.5, false},
		{"negative", "-1", 0, true},
		{"text", "five", 0, true},
		{"empty", "", 0, true},
		{"nan", "NaN", 0, true},
		{"infinity", "+Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMiles)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMiles_CommitValid(t *testing.T) {
	m := NewMiles(0)
	assert.Equal(t, "0", m.Draft())

	m.Set("5.0")
	assert.Equal(t, 0.0, m.Committed(), "set must not commit")

	miles, err := m.Commit()
	require.NoError(t, err)
	assert.Equal(t, 5.0, miles)
	assert.Equal(t, 5.0, m.Committed())
	assert.Equal(t, "5", m.Draft())
}

func TestMiles_CommitInvalidReverts(t *testing.T) {
	m := NewMiles(5)

	m.Set("-1")
	miles, err := m.Commit()

	assert.ErrorIs(t, err, ErrInvalidMiles)
	assert.Equal(t, 5.0, miles)
	assert.Equal(t, 5.0, m.Committed())
	assert.Equal(t, "5", m.Draft())
}

func TestMiles_Revert(t *testing.T) {
	m := NewMiles(2.5)
	m.Set("10")
	m.Revert()

	assert.Equal(t, "2.5", m.Draft())
	assert.Equal(t, 2.5, m.Committed())
}
