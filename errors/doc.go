// Package errors provides structured error types for the speech SDK bindings.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Native call failures carry the raw SDK status code and the name of the C function
// that returned it.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseNative, errors.KindNativeCall).
//		Func("property_bag_set_string").
//		Code(0x21).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NativeCall("speech_config_release", 0x21)
//	err := errors.Encoding(errors.PhaseMarshal, "property name", name)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
