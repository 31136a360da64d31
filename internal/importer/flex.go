package importer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexInt is an optional integer that tolerates the shapes hand-edited or
// legacy documents carry: numbers, numeric strings, floats and null.
// Anything unreadable decodes as absent instead of failing the document.
type FlexInt struct {
	Value int
	Valid bool
}

// Int returns a present FlexInt.
func Int(v int) FlexInt {
	return FlexInt{Value: v, Valid: true}
}

// Ptr returns nil when the value is absent.
func (f FlexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	} else {
		s = string(data)
	}
	f.parse(s)
	return nil
}

func (f FlexInt) MarshalYAML() (any, error) {
	if !f.Valid {
		return nil, nil
	}
	return f.Value, nil
}

func (f *FlexInt) UnmarshalYAML(node *yaml.Node) error {
	*f = FlexInt{}
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return nil
	}
	f.parse(node.Value)
	return nil
}

func (f *FlexInt) parse(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = Int(n)
		return
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		*f = Int(int(math.Floor(v)))
	}
}
