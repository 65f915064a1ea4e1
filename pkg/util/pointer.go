package util

// Ref returns the pointer to the value
func Ref[T any](v T) *T {
	return &v
}
