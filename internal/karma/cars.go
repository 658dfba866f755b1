package karma

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dm/karma-go/internal/format"
)

//go:embed cars.csv
var defaultCars string

// CSV layout of the car list.
const (
	idColumn   = 1
	timeColumn = 3
	startLine  = 4
)

// Car is one selectable car and its reference lap time in milliseconds.
type Car struct {
	ID      string
	LapTime int
}

// DefaultCars returns the car list embedded in the binary.
func DefaultCars(logger *slog.Logger) ([]Car, error) {
	return ReadCars(strings.NewReader(defaultCars), logger)
}

// LoadCars reads a car list from path. An empty path loads the embedded list.
func LoadCars(path string, logger *slog.Logger) ([]Car, error) {
	if path == "" {
		return DefaultCars(logger)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open car list: %w", err)
	}
	defer f.Close()
	return ReadCars(f, logger)
}

// ReadCars parses a car list. Lines before the data start, lines with too
// few columns, duplicate IDs and unparsable lap times are skipped.
func ReadCars(r io.Reader, logger *slog.Logger) ([]Car, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		cars []Car
		seen = make(map[string]bool)
		line int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read car list line %d: %w", line, err)
		}
		if line <= startLine {
			continue
		}
		if len(record) <= idColumn || len(record) <= timeColumn {
			logger.Debug("skipping short car line", "line", line)
			continue
		}
		id := strings.TrimSpace(record[idColumn])
		if seen[id] {
			logger.Debug("skipping duplicate car", "line", line, "id", id)
			continue
		}
		lap, err := ParseLapTime(record[timeColumn])
		if err != nil {
			logger.Debug("skipping car with bad lap time", "line", line, "error", err)
			continue
		}
		seen[id] = true
		cars = append(cars, Car{ID: id, LapTime: lap})
	}
	logger.Info("loaded car list", "cars", len(cars))
	return cars, nil
}

// ParseLapTime parses "M:SS.mmm" into milliseconds. One or two digit
// millisecond parts are scaled ("3:05.4" is 185400).
func ParseLapTime(s string) (int, error) {
	s = strings.TrimSpace(s)
	minStr, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid lap time %q, expected M:SS.mmm", s)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("invalid minutes in lap time %q", s)
	}
	secStr, msStr, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, fmt.Errorf("invalid seconds in lap time %q, expected SS.mmm", s)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(secStr))
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid seconds in lap time %q", s)
	}
	millis, err := format.ScaleMillis(strings.TrimSpace(msStr))
	if err != nil {
		return 0, fmt.Errorf("lap time %q: %w", s, err)
	}
	return minutes*60_000 + seconds*1_000 + millis, nil
}

// TargetRange returns the smallest and largest total lap time reachable by a
// subset of lapCount cars.
func TargetRange(cars []Car, lapCount int) (lo, hi int) {
	if len(cars) == 0 || lapCount <= 0 {
		return 0, 0
	}
	return minMaxSums(cars, sortedIndices(cars, nil), lapCount)
}

// sortedIndices returns idx (or all car indices when idx is nil) ordered by
// ascending lap time.
func sortedIndices(cars []Car, idx []int) []int {
	if idx == nil {
		idx = make([]int, len(cars))
		for i := range idx {
			idx[i] = i
		}
	} else {
		idx = slices.Clone(idx)
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cars[a].LapTime - cars[b].LapTime
	})
	return idx
}

// minMaxSums sums the x fastest and x slowest lap times of the sorted idx.
func minMaxSums(cars []Car, idx []int, x int) (lo, hi int) {
	if len(idx) == 0 || x <= 0 {
		return 0, 0
	}
	x = min(x, len(idx))
	for i := 0; i < x; i++ {
		lo += cars[idx[i]].LapTime
		hi += cars[idx[len(idx)-1-i]].LapTime
	}
	return lo, hi
}

func subsetSum(cars []Car, subset []int) int {
	var sum int
	for _, i := range subset {
		sum += cars[i].LapTime
	}
	return sum
}
