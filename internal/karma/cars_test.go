package karma

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = `title,,,
track,,,
source,,,
#,Car,Category,Lap Time
1,Alpha,Gr.3,3:30.500
2,Bravo,Gr.4,3:45.12
3,Alpha,Gr.3,3:31.000
4,Short
5,Charlie,N300,bad
6,Delta,N500,4:02.7
`

func TestReadCars_SkipsHeaderDuplicatesAndBadLines(t *testing.T) {
	cars, err := ReadCars(strings.NewReader(fixtureCSV), nil)
	require.NoError(t, err)

	assert.Equal(t, []Car{
		{ID: "Alpha", LapTime: 210500},
		{ID: "Bravo", LapTime: 225120},
		{ID: "Delta", LapTime: 242700},
	}, cars)
}

func TestDefaultCars_Loads(t *testing.T) {
	cars, err := DefaultCars(nil)
	require.NoError(t, err)
	assert.Len(t, cars, 140)
	for _, c := range cars {
		assert.NotEmpty(t, c.ID)
		assert.Positive(t, c.LapTime)
	}
}

func TestLoadCars_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o600))

	cars, err := LoadCars(path, nil)
	require.NoError(t, err)
	assert.Len(t, cars, 3)

	_, err = LoadCars(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestParseLapTime(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3:30.500", 210500},
		{"0:59.999", 59999},
		{"3:05.4", 185400},
		{"3:05.43", 185430},
		{" 1:00.000 ", 60000},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLapTime(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLapTime_Errors(t *testing.T) {
	for _, input := range []string{"", "3.30.500", "3:30", "x:30.500", "3:60.000", "3:30.abc", "3:30.1234"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLapTime(input)
			assert.Error(t, err)
		})
	}
}

func TestTargetRange(t *testing.T) {
	cars := []Car{{"a", 300}, {"b", 100}, {"c", 200}, {"d", 400}}

	lo, hi := TargetRange(cars, 2)
	assert.Equal(t, 300, lo)
	assert.Equal(t, 700, hi)

	lo, hi = TargetRange(cars, 0)
	assert.Zero(t, lo)
	assert.Zero(t, hi)

	lo, hi = TargetRange(nil, 3)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
