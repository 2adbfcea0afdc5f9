package flagx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// lookupEnv is a test seam for os.LookupEnv.
var lookupEnv = os.LookupEnv

// EnvString overwrites *dst with the trimmed value of key when it is set and
// non-empty.
func EnvString(dst *string, key string) {
	if v, ok := lookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// EnvInt64 overwrites *dst with the integer value of key when it is set.
// A value that does not parse is reported instead of silently ignored.
func EnvInt64(dst *int64, key string) error {
	v, ok := lookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
