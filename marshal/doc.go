// Package marshal moves strings across the native boundary.
//
// Three directions are supported:
//
//	Arena       Go text into native memory as NUL-terminated strings
//	GetString   native output written into a caller-sized buffer
//	TakeString  native-allocated strings copied out and freed
//
// Raw pointers never leave this package's callers: every pointer handed to a
// native call comes from an Arena or a GetString buffer and is freed before
// the call returns to Go code.
package marshal
