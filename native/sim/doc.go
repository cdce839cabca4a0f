// Package sim is an in-process simulation of the Speech SDK C API.
//
// SDK implements native.API without linking the vendor library. Native memory
// is a WebAssembly linear memory hosted by wazero, so every pointer the
// bindings hand across the boundary is a real offset into a bounded address
// space: out-of-range reads fail instead of corrupting the Go heap.
//
// # Usage
//
//	api, err := sim.New(ctx, sim.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer api.Close(ctx)
//
// # Test Hooks
//
// The simulation records every native call by its C function name and can be
// told to fail the next call to a function:
//
//	api.FailNext("property_bag_set_string", native.StatusInvalidArg)
//	...
//	api.Calls("property_bag_set_string") // 1
//
// Outstanding reports live heap allocations, which makes leaks of
// native-owned strings visible to tests. Observers see every handle creation,
// release and double release.
package sim
