package executor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"airguard-hq/sentinel/pkg/enforce"
)

// Reading is one air quality measurement from a data file.
type Reading struct {
	Location  string    `json:"location"`
	AQI       float64   `json:"aqi"`
	Timestamp time.Time `json:"timestamp"`
}

// loadReadings reads every *.json file under the data directory and returns
// the combined measurements, sorted by timestamp. Files larger than
// maxFileBytes (0 = unlimited) abort the load.
func (e *Executor) loadReadings(maxFileBytes int64) ([]Reading, error) {
	entries, err := os.ReadDir(e.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %q: %w", e.dataDir, err)
	}

	var readings []Reading
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(e.dataDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat data file %q: %w", path, err)
		}
		if maxFileBytes > 0 && info.Size() > maxFileBytes {
			return nil, fmt.Errorf("data file %q is %d bytes, exceeding the %d byte limit", path, info.Size(), maxFileBytes)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read data file %q: %w", path, err)
		}
		var fileReadings []Reading
		if err := json.Unmarshal(data, &fileReadings); err != nil {
			return nil, fmt.Errorf("failed to parse data file %q: %w", path, err)
		}
		readings = append(readings, fileReadings...)
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

// filterByLocation keeps readings for the given location. An empty location
// keeps everything.
func filterByLocation(readings []Reading, location string) []Reading {
	if location == "" {
		return readings
	}
	filtered := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r.Location == location {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// paramString fetches a string parameter from the request's intent.
func paramString(req *enforce.Request, key string) (string, bool) {
	if req.Intent == nil || req.Intent.Parameters == nil {
		return "", false
	}
	value, ok := req.Intent.Parameters[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// constraintInt fetches a numeric constraint from the request. YAML and
// JSON decoding produce different numeric types, so all three are accepted.
func constraintInt(req *enforce.Request, key string) (int, bool) {
	value, ok := req.Constraints[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
