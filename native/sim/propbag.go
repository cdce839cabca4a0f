package sim

import (
	"bytes"
	"maps"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/native"
)

// store is the property collection shared by every bag handle that
// refers to it.
type store struct {
	byID   map[int32][]byte
	byName map[string][]byte
}

func newStore() *store {
	return &store{
		byID:   make(map[int32][]byte),
		byName: make(map[string][]byte),
	}
}

func (st *store) lookup(id int32, name string) ([]byte, bool) {
	if id == int32(speechsdk.PropertyIDByName) {
		v, ok := st.byName[name]
		return v, ok
	}
	v, ok := st.byID[id]
	return v, ok
}

func (st *store) set(id int32, name string, value []byte) {
	if id == int32(speechsdk.PropertyIDByName) {
		st.byName[name] = value
		return
	}
	st.byID[id] = value
}

func (st *store) copyInto(dst *store) {
	maps.Copy(dst.byID, st.byID)
	maps.Copy(dst.byName, st.byName)
}

// bagRef is the value behind a property bag handle.
type bagRef struct {
	store *store
}

func (s *SDK) bag(h speechsdk.Handle) (*store, bool) {
	v, ok := s.table.get(h, KindPropertyBag)
	if !ok {
		return nil, false
	}
	return v.(*bagRef).store, true
}

// newBagHandle issues a bag handle aliasing st. Callers hold s.mu.
func (s *SDK) newBagHandle(st *store) (speechsdk.Handle, Event) {
	return s.table.insert(KindPropertyBag, &bagRef{store: st})
}

// PropertyBagCreate implements property_bag_create.
func (s *SDK) PropertyBagCreate(out *speechsdk.Handle) native.Status {
	if out == nil {
		return native.StatusInvalidArg
	}
	s.mu.Lock()
	if st, failed := s.enter("property_bag_create"); failed {
		s.mu.Unlock()
		return st
	}
	h, ev := s.newBagHandle(newStore())
	s.mu.Unlock()

	s.notify(ev)
	*out = h
	return native.StatusOK
}

// PropertyBagIsValid implements property_bag_is_valid.
func (s *SDK) PropertyBagIsValid(h speechsdk.Handle) bool {
	return s.isValid("property_bag_is_valid", h, KindPropertyBag)
}

// PropertyBagRelease implements property_bag_release.
func (s *SDK) PropertyBagRelease(h speechsdk.Handle) native.Status {
	return s.release("property_bag_release", h, KindPropertyBag)
}

// PropertyBagCopy implements property_bag_copy.
func (s *SDK) PropertyBagCopy(from, to speechsdk.Handle) native.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("property_bag_copy"); failed {
		return st
	}
	src, ok := s.bag(from)
	if !ok {
		return native.StatusInvalidHandle
	}
	dst, ok := s.bag(to)
	if !ok {
		return native.StatusInvalidHandle
	}
	src.copyInto(dst)
	return native.StatusOK
}

// PropertyBagGetString implements property_bag_get_string. Absent keys
// resolve to def. Ids outside the SDK enumeration that were never set are
// unknown to the store and yield NULL.
func (s *SDK) PropertyBagGetString(h speechsdk.Handle, id int32, name, def speechsdk.Ptr) speechsdk.Ptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, failed := s.enter("property_bag_get_string"); failed {
		return 0
	}

	st, ok := s.bag(h)
	if !ok {
		return 0
	}

	var key string
	if id == int32(speechsdk.PropertyIDByName) {
		if key, ok = s.readArg(name); !ok {
			return 0
		}
	}

	value, found := st.lookup(id, key)
	if !found {
		if id != int32(speechsdk.PropertyIDByName) && !speechsdk.PropertyID(id).Known() {
			return 0
		}
		d, ok := s.readArg(def)
		if !ok {
			return 0
		}
		value = []byte(d)
	}

	off, err := s.heap.place(value)
	if err != nil {
		return 0
	}
	s.strings[off] = struct{}{}
	return speechsdk.Ptr(off)
}

// PropertyBagSetString implements property_bag_set_string.
func (s *SDK) PropertyBagSetString(h speechsdk.Handle, id int32, name, value speechsdk.Ptr) native.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("property_bag_set_string"); failed {
		return st
	}

	st, ok := s.bag(h)
	if !ok {
		return native.StatusInvalidHandle
	}

	var key string
	if id == int32(speechsdk.PropertyIDByName) {
		if key, ok = s.readArg(name); !ok {
			return native.StatusInvalidArg
		}
	}
	v, ok := s.readArg(value)
	if !ok {
		return native.StatusInvalidArg
	}

	st.set(id, key, []byte(v))
	return native.StatusOK
}

// PropertyBagFreeString implements property_bag_free_string.
func (s *SDK) PropertyBagFreeString(p speechsdk.Ptr) native.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("property_bag_free_string"); failed {
		return st
	}
	if uint64(p) > uint64(^uint32(0)) {
		return native.StatusInvalidArg
	}
	off := uint32(p)
	if _, ok := s.strings[off]; !ok {
		return native.StatusInvalidArg
	}
	delete(s.strings, off)
	s.heap.release(off)
	return native.StatusOK
}

// SetRaw stores value under name in the bag h without any validation, so
// tests can plant bytes that are not valid UTF-8. value must not contain NUL.
func (s *SDK) SetRaw(h speechsdk.Handle, name string, value []byte) bool {
	if bytes.IndexByte(value, 0) >= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.bag(h)
	if !ok {
		return false
	}
	st.set(int32(speechsdk.PropertyIDByName), name, bytes.Clone(value))
	return true
}
