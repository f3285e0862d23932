package util

// Ptr returns a pointer to the given value, for optional config fields
// such as am.ServerConfig.Port.
func Ptr[T any](v T) *T {
	return &v
}
