// Package sdk binds native.API to the Microsoft Cognitive Services Speech
// SDK through cgo.
//
// The package is only built with the speechsdk build tag. Headers and the
// core library are located through CGO_CFLAGS and CGO_LDFLAGS:
//
//	export CGO_CFLAGS="-I$SPEECHSDK_ROOT/include/c_api"
//	export CGO_LDFLAGS="-L$SPEECHSDK_ROOT/lib/x64"
//	go build -tags speechsdk ./...
//
// Unlike the simulated SDK, memory access through this package is not
// bounds checked: pointers are real C pointers and must come from the SDK
// or from Alloc.
package sdk
