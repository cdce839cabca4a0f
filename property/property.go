package property

import (
	"fmt"
	"strconv"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/errors"
	"github.com/wippyai/speech-sdk-go/handle"
	"github.com/wippyai/speech-sdk-go/marshal"
	"github.com/wippyai/speech-sdk-go/native"
)

// API is the native surface a property bag needs.
type API interface {
	native.Runtime
	native.PropertyBagAPI
}

// Bag is implemented by everything that exposes SDK properties.
type Bag interface {
	GetByID(id speechsdk.PropertyID) (string, error)
	GetByName(name string) (string, error)
	PutByID(id speechsdk.PropertyID, value any) error
	PutByName(name string, value any) error
}

// Unimplemented can be embedded by types that declare the Bag capability
// without a native store behind it. Every method fails.
type Unimplemented struct{}

func (Unimplemented) GetByID(speechsdk.PropertyID) (string, error) {
	return "", errors.Unimplemented("GetByID")
}

func (Unimplemented) GetByName(string) (string, error) {
	return "", errors.Unimplemented("GetByName")
}

func (Unimplemented) PutByID(speechsdk.PropertyID, any) error {
	return errors.Unimplemented("PutByID")
}

func (Unimplemented) PutByName(string, any) error {
	return errors.Unimplemented("PutByName")
}

var _ Bag = Unimplemented{}

// Kind returns the handle kind for property bags served by api.
func Kind(api API) *handle.Kind[speechsdk.Handle] {
	return &handle.Kind[speechsdk.Handle]{
		Name: "property_bag",
		Release: func(h speechsdk.Handle) error {
			return native.CheckFunc("property_bag_release", api.PropertyBagRelease(h))
		},
		IsValid: api.PropertyBagIsValid,
	}
}

// Properties is a live view of one native property bag.
type Properties struct {
	api API
	h   *handle.Wrapper[speechsdk.Handle]
}

var _ Bag = (*Properties)(nil)

// New adopts the standalone bag h.
func New(api API, h speechsdk.Handle) *Properties {
	return &Properties{api: api, h: handle.New(Kind(api), h)}
}

// Create allocates an empty standalone bag.
func Create(api API) (*Properties, error) {
	var h speechsdk.Handle
	if err := native.CheckFunc("property_bag_create", api.PropertyBagCreate(&h)); err != nil {
		return nil, err
	}
	return New(api, h), nil
}

// FetchFunc retrieves the bag associated with a parent object.
type FetchFunc func(parent speechsdk.Handle, out *speechsdk.Handle) native.Status

// FromParent fetches the bag of parent through fetch, which is the C
// function named fn. A failing status or an unset bag handle is an error.
func FromParent(api API, fn string, parent speechsdk.Handle, fetch FetchFunc) (*Properties, error) {
	if !parent.IsSet() {
		return nil, errors.InvalidHandle(errors.PhaseConstruct, "parent", uintptr(parent))
	}
	out := speechsdk.InvalidHandle
	if err := native.CheckFunc(fn, fetch(parent, &out)); err != nil {
		return nil, err
	}
	if !out.IsSet() {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidHandle).
			Func(fn).
			Value(uintptr(out)).
			Detail("no property bag returned").
			Build()
	}
	return New(api, out), nil
}

// GetByID returns the value stored under id, or "" when it is not set.
func (p *Properties) GetByID(id speechsdk.PropertyID) (string, error) {
	var value string
	err := p.h.Use(func(h speechsdk.Handle) error {
		a := marshal.NewArena(p.api)
		defer a.Free()
		def, err := a.String("")
		if err != nil {
			return err
		}
		value, err = p.take(p.api.PropertyBagGetString(h, int32(id), 0, def))
		return err
	})
	return value, err
}

// GetByName returns the value stored under name, or "" when it is not set.
func (p *Properties) GetByName(name string) (string, error) {
	var value string
	err := p.h.Use(func(h speechsdk.Handle) error {
		a := marshal.NewArena(p.api)
		defer a.Free()
		ptrs, err := a.Strings(name, "")
		if err != nil {
			return err
		}
		value, err = p.take(p.api.PropertyBagGetString(h, int32(speechsdk.PropertyIDByName), ptrs[0], ptrs[1]))
		return err
	})
	return value, err
}

func (p *Properties) take(s speechsdk.Ptr) (string, error) {
	return marshal.TakeString(p.api, "property_bag_get_string", s, p.api.PropertyBagFreeString)
}

// PutByID stores the text form of value under id.
func (p *Properties) PutByID(id speechsdk.PropertyID, value any) error {
	return p.h.Use(func(h speechsdk.Handle) error {
		a := marshal.NewArena(p.api)
		defer a.Free()
		v, err := a.String(Text(value))
		if err != nil {
			return err
		}
		return native.CheckFunc("property_bag_set_string", p.api.PropertyBagSetString(h, int32(id), 0, v))
	})
}

// PutByName stores the text form of value under name.
func (p *Properties) PutByName(name string, value any) error {
	return p.h.Use(func(h speechsdk.Handle) error {
		a := marshal.NewArena(p.api)
		defer a.Free()
		ptrs, err := a.Strings(name, Text(value))
		if err != nil {
			return err
		}
		return native.CheckFunc("property_bag_set_string",
			p.api.PropertyBagSetString(h, int32(speechsdk.PropertyIDByName), ptrs[0], ptrs[1]))
	})
}

// CopyTo copies every property of p into dst.
func (p *Properties) CopyTo(dst *Properties) error {
	return p.h.Use(func(from speechsdk.Handle) error {
		return dst.h.Use(func(to speechsdk.Handle) error {
			return native.CheckFunc("property_bag_copy", p.api.PropertyBagCopy(from, to))
		})
	})
}

// Raw returns the bag handle without transferring ownership.
func (p *Properties) Raw() speechsdk.Handle {
	return p.h.Raw()
}

// IsValid reports whether the native bag is still live.
func (p *Properties) IsValid() bool {
	return p.h.IsValid()
}

// Close releases the bag. Later calls do nothing.
func (p *Properties) Close() error {
	return p.h.Release()
}

func (p *Properties) String() string {
	return fmt.Sprintf("Properties{handle: %d}", uintptr(p.h.Raw()))
}

// Text converts a property value to the string stored in the bag.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
