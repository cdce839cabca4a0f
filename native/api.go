package native

import (
	speechsdk "github.com/wippyai/speech-sdk-go"
)

// Runtime gives access to native memory.
type Runtime interface {
	speechsdk.Memory
	speechsdk.Allocator
}

// PropertyBagAPI mirrors speechapi_c_property_bag.h.
type PropertyBagAPI interface {
	PropertyBagCreate(out *speechsdk.Handle) Status
	PropertyBagIsValid(h speechsdk.Handle) bool
	PropertyBagRelease(h speechsdk.Handle) Status
	PropertyBagCopy(from, to speechsdk.Handle) Status

	// PropertyBagGetString returns a string the caller must pass to
	// PropertyBagFreeString, or NULL on failure. id is
	// speechsdk.PropertyIDByName when name is set.
	PropertyBagGetString(h speechsdk.Handle, id int32, name, def speechsdk.Ptr) speechsdk.Ptr
	PropertyBagSetString(h speechsdk.Handle, id int32, name, value speechsdk.Ptr) Status
	PropertyBagFreeString(p speechsdk.Ptr) Status
}

// SpeechConfigAPI mirrors speechapi_c_speech_config.h.
type SpeechConfigAPI interface {
	SpeechConfigFromSubscription(out *speechsdk.Handle, key, region speechsdk.Ptr) Status
	SpeechConfigFromEndpoint(out *speechsdk.Handle, endpoint, key speechsdk.Ptr) Status
	SpeechConfigIsHandleValid(h speechsdk.Handle) bool
	SpeechConfigRelease(h speechsdk.Handle) Status
	SpeechConfigGetPropertyBag(h speechsdk.Handle, out *speechsdk.Handle) Status
}

// ResultAPI mirrors the result accessors of speechapi_c_result.h.
type ResultAPI interface {
	RecognizerResultHandleIsValid(h speechsdk.Handle) bool
	RecognizerResultHandleRelease(h speechsdk.Handle) Status
	ResultGetResultID(h speechsdk.Handle, buf speechsdk.Ptr, size uint32) Status
	ResultGetText(h speechsdk.Handle, buf speechsdk.Ptr, size uint32) Status
	ResultGetPropertyBag(h speechsdk.Handle, out *speechsdk.Handle) Status
}

// API is the complete foreign-function surface used by the bindings.
// Implementations must be safe for concurrent use.
type API interface {
	Runtime
	PropertyBagAPI
	SpeechConfigAPI
	ResultAPI
}
