// Package speechsdk provides Go bindings for the Microsoft Cognitive Services
// Speech SDK C API.
//
// The bindings own native handle lifetimes, marshal strings across the
// foreign-function boundary, and translate native status codes into
// structured errors.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	speechsdk/           Root package with Handle, Ptr, Memory and Allocator
//	├── native/          Foreign-function surface and status translation
//	│   ├── sdk/         cgo binding to the real SDK (build tag speechsdk)
//	│   └── sim/         Pure Go simulated SDK backed by a wazero linear memory
//	├── marshal/         C string marshaling: input arenas, fixed buffers, owned strings
//	├── handle/          Generic owning handle wrapper with scoped release
//	├── property/        Property bags and composite handle objects
//	├── speech/          Speech config and recognition result objects
//	└── errors/          Structured error types
//
// # Quick Start
//
//	api, err := sim.New(ctx, sim.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer api.Close(ctx)
//
//	cfg, err := speech.NewConfigFromSubscription(api, key, region)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cfg.Close()
//
//	if err := cfg.PutByID(speechsdk.SpeechServiceConnectionRecoLanguage, "en-US"); err != nil {
//	    log.Fatal(err)
//	}
//	lang, _ := cfg.GetByID(speechsdk.SpeechServiceConnectionRecoLanguage)
//
// # Handle Ownership
//
// Every wrapper is the sole releaser of the native handle it adopted. Release
// happens exactly once: explicitly through Close, through a handle.Scope at
// scope exit, or as a last resort when the garbage collector finds a live
// wrapper unreachable. Two wrappers adopting the same raw handle is a caller
// error and is not detected.
//
// # Thread Safety
//
// Wrappers add no locking. They are safe to share between goroutines only
// because native.API implementations are required to be safe for concurrent
// use, which the Speech SDK documents for its handle operations.
package speechsdk
