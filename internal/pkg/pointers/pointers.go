// Package pointers builds pointers to literals, mostly for optional request
// fields and test fixtures.
package pointers

func Ptr[T any](v T) *T { return &v }

// Typed variants keep call sites readable where inference would need an
// explicit instantiation anyway.
func Float64(v float64) *float64 { return &v }
func String(v string) *string    { return &v }
func Int(v int) *int             { return &v }
func Bool(v bool) *bool          { return &v }
