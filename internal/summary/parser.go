package summary

import (
	"encoding/json"
	"os"
)

// Load reads a persisted Summary from path.
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &s, nil
}
