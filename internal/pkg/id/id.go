package id

import "github.com/oklog/ulid/v2"

// New generates a new ULID string. The shared monotonic source keeps ids
// generated within the same millisecond lexicographically ordered, which
// replay comparisons rely on. Safe for use as DynamoDB partition keys.
func New() string {
	return ulid.Make().String()
}

// Valid reports whether s parses as a ULID.
func Valid(s string) bool {
	_, err := ulid.Parse(s)
	return err == nil
}
