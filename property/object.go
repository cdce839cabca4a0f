package property

import (
	stderrors "errors"
	"fmt"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/handle"
)

// Object is a native object that owns a property bag. The property
// methods of the embedded Properties operate on that bag.
type Object struct {
	*Properties
	h *handle.Wrapper[speechsdk.Handle]
}

// NewObject adopts raw as an object of the given kind and fetches its bag.
// If the fetch fails the adopted handle is released before returning.
func NewObject(api API, kind *handle.Kind[speechsdk.Handle], raw speechsdk.Handle, fn string, fetch FetchFunc) (*Object, error) {
	parent := handle.New(kind, raw)
	props, err := FromParent(api, fn, raw, fetch)
	if err != nil {
		return nil, stderrors.Join(err, parent.Release())
	}
	return &Object{Properties: props, h: parent}, nil
}

// Handle returns the wrapper owning the object handle.
func (o *Object) Handle() *handle.Wrapper[speechsdk.Handle] {
	return o.h
}

// Raw returns the object handle without transferring ownership.
func (o *Object) Raw() speechsdk.Handle {
	return o.h.Raw()
}

// Get returns the object handle for use in a native call.
func (o *Object) Get() (speechsdk.Handle, error) {
	return o.h.Get()
}

// IsValid reports whether the object handle is still live.
func (o *Object) IsValid() bool {
	return o.h.IsValid()
}

// Props returns the object's property bag.
func (o *Object) Props() *Properties {
	return o.Properties
}

// Close releases the object and then its property bag.
func (o *Object) Close() error {
	return stderrors.Join(o.h.Release(), o.Properties.Close())
}

func (o *Object) String() string {
	return fmt.Sprintf("%s{handle: %d, properties: %v}", o.h.Kind(), uintptr(o.h.Raw()), o.Properties)
}
