// Package handle owns native handles and releases them exactly once.
//
// A Wrapper adopts the raw value returned by a native constructor and
// releases it through its Kind:
//
//	w := handle.New(bagKind, raw)
//	defer w.Close()
//
// Release is skipped when the kind has a validity check that reports the
// handle as invalid. After release the wrapper holds the invalid sentinel and
// further releases do nothing. Wrappers that become unreachable while still
// live are released by a runtime cleanup and logged as leaks.
//
// Wrappers take no locks. They may be shared across goroutines provided the
// native functions behind the Kind are themselves safe for concurrent use.
package handle
