package pipe

import (
	"fmt"
	"strconv"
	"time"
)

// Settings holds adapter-specific options. They are opaque to the pipeline
// and handed to the adapter factory verbatim.
type Settings map[string]interface{}

// String returns a string setting or def when absent
func (s Settings) String(key, def string) string {
	if v, ok := s[key]; ok && v != nil {
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		default:
			return fmt.Sprint(t)
		}
	}
	return def
}

// Duration returns a duration setting. Strings are parsed with
// time.ParseDuration, numbers are taken as seconds.
func (s Settings) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return def, nil
	}

	switch t := v.(type) {
	case time.Duration:
		return t, nil
	case string:
		if d, err := time.ParseDuration(t); err == nil {
			return d, nil
		}
		secs, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("setting %s: invalid duration %q", key, t)
		}
		return time.Duration(secs * float64(time.Second)), nil
	case int:
		return time.Duration(t) * time.Second, nil
	case int64:
		return time.Duration(t) * time.Second, nil
	case float64:
		return time.Duration(t * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("setting %s: unsupported duration type %T", key, v)
	}
}

// StringMap returns a map of strings, used for things like HTTP headers
func (s Settings) StringMap(key string) map[string]string {
	out := make(map[string]string)
	switch t := s[key].(type) {
	case map[string]string:
		for k, v := range t {
			out[k] = v
		}
	case map[string]interface{}:
		for k, v := range t {
			out[k] = fmt.Sprint(v)
		}
	case Settings:
		for k, v := range t {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// Records returns a list of records stored under key
func (s Settings) Records(key string) []Record {
	raw, ok := s[key].([]interface{})
	if !ok {
		if typed, ok := s[key].([]Record); ok {
			return typed
		}
		if maps, ok := s[key].([]map[string]interface{}); ok {
			out := make([]Record, 0, len(maps))
			for _, m := range maps {
				out = append(out, Record(m))
			}
			return out
		}
		return nil
	}

	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		switch m := item.(type) {
		case map[string]interface{}:
			out = append(out, Record(m))
		case Settings:
			// yaml.v3 decodes maps nested in a Settings value as Settings
			out = append(out, Record(m))
		case Record:
			out = append(out, m)
		}
	}
	return out
}
