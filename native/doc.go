// Package native defines the foreign-function surface of the Speech SDK C API
// and translates its status codes.
//
// # Status Translation
//
// Every SDK function that can fail returns an SPXHR status. Zero is success;
// any other value is an opaque failure code:
//
//	if err := native.Check(api.PropertyBagRelease(h)); err != nil {
//	    return err
//	}
//
// Check never branches on specific codes. The named Status constants exist for
// formatting and for backends that need to produce them.
//
// # Backends
//
// API is implemented by two backends:
//
//	native/sdk   cgo binding to Microsoft.CognitiveServices.Speech.core (build tag speechsdk)
//	native/sim   in-process simulation used by tests and tooling
//
// Higher layers never see raw pointers; they go through the marshal package.
//
// # Concurrency Contract
//
// Implementations of API must be safe for concurrent use. The handle and
// property packages add no locking and rely on this contract.
package native
