package speech

import (
	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/handle"
	"github.com/wippyai/speech-sdk-go/marshal"
	"github.com/wippyai/speech-sdk-go/native"
	"github.com/wippyai/speech-sdk-go/property"
)

// ResultAPI is the native surface used by Result.
type ResultAPI interface {
	property.API
	native.ResultAPI
}

func resultKind(api ResultAPI) *handle.Kind[speechsdk.Handle] {
	return &handle.Kind[speechsdk.Handle]{
		Name: "recognizer_result",
		Release: func(h speechsdk.Handle) error {
			return native.CheckFunc("recognizer_result_handle_release", api.RecognizerResultHandleRelease(h))
		},
		IsValid: api.RecognizerResultHandleIsValid,
	}
}

// Result is a recognition result.
type Result struct {
	*property.Object
	api ResultAPI
}

// NewResult adopts a native result handle.
func NewResult(api ResultAPI, h speechsdk.Handle) (*Result, error) {
	obj, err := property.NewObject(api, resultKind(api), h,
		"result_get_property_bag", api.ResultGetPropertyBag)
	if err != nil {
		return nil, err
	}
	return &Result{Object: obj, api: api}, nil
}

// ResultID returns the unique result identifier.
func (r *Result) ResultID() (string, error) {
	return r.field("result_get_result_id", 0, r.api.ResultGetResultID)
}

// Text returns the recognized text. Text longer than
// marshal.DefaultBufferSize needs TextWithCapacity.
func (r *Result) Text() (string, error) {
	return r.TextWithCapacity(0)
}

// TextWithCapacity returns the recognized text using an output buffer of
// size bytes. Zero selects marshal.DefaultBufferSize.
func (r *Result) TextWithCapacity(size uint32) (string, error) {
	return r.field("result_get_text", size, r.api.ResultGetText)
}

func (r *Result) field(fn string, size uint32, get func(speechsdk.Handle, speechsdk.Ptr, uint32) native.Status) (string, error) {
	var value string
	err := r.Handle().Use(func(h speechsdk.Handle) error {
		var err error
		value, err = marshal.GetString(r.api, fn, size, func(buf speechsdk.Ptr, n uint32) native.Status {
			return get(h, buf, n)
		})
		return err
	})
	return value, err
}

// JSON returns the full service response.
func (r *Result) JSON() (string, error) {
	return r.GetByID(speechsdk.SpeechServiceResponseJSONResult)
}

// ErrorDetails returns the service error details of a failed result.
func (r *Result) ErrorDetails() (string, error) {
	return r.GetByID(speechsdk.SpeechServiceResponseJSONErrorDetails)
}
