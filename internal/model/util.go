package model

import "strconv"

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// String returns a pointer to v, or nil for the empty string.
func String(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
