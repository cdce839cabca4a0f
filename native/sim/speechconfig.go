package sim

import (
	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/native"
)

type speechConfig struct {
	props *store
}

func (s *SDK) newConfig(fn string, out *speechsdk.Handle, props map[speechsdk.PropertyID]speechsdk.Ptr) native.Status {
	if out == nil {
		return native.StatusInvalidArg
	}
	s.mu.Lock()
	if st, failed := s.enter(fn); failed {
		s.mu.Unlock()
		return st
	}

	st := newStore()
	for id, p := range props {
		v, ok := s.readArg(p)
		if !ok || v == "" {
			s.mu.Unlock()
			return native.StatusInvalidArg
		}
		st.set(int32(id), "", []byte(v))
	}
	h, ev := s.table.insert(KindSpeechConfig, &speechConfig{props: st})
	s.mu.Unlock()

	s.notify(ev)
	*out = h
	return native.StatusOK
}

// SpeechConfigFromSubscription implements speech_config_from_subscription.
func (s *SDK) SpeechConfigFromSubscription(out *speechsdk.Handle, key, region speechsdk.Ptr) native.Status {
	return s.newConfig("speech_config_from_subscription", out, map[speechsdk.PropertyID]speechsdk.Ptr{
		speechsdk.SpeechServiceConnectionKey:    key,
		speechsdk.SpeechServiceConnectionRegion: region,
	})
}

// SpeechConfigFromEndpoint implements speech_config_from_endpoint.
func (s *SDK) SpeechConfigFromEndpoint(out *speechsdk.Handle, endpoint, key speechsdk.Ptr) native.Status {
	return s.newConfig("speech_config_from_endpoint", out, map[speechsdk.PropertyID]speechsdk.Ptr{
		speechsdk.SpeechServiceConnectionEndpoint: endpoint,
		speechsdk.SpeechServiceConnectionKey:      key,
	})
}

// SpeechConfigIsHandleValid implements speech_config_is_handle_valid.
func (s *SDK) SpeechConfigIsHandleValid(h speechsdk.Handle) bool {
	return s.isValid("speech_config_is_handle_valid", h, KindSpeechConfig)
}

// SpeechConfigRelease implements speech_config_release. Bag handles fetched
// from the config stay valid until released themselves.
func (s *SDK) SpeechConfigRelease(h speechsdk.Handle) native.Status {
	return s.release("speech_config_release", h, KindSpeechConfig)
}

// SpeechConfigGetPropertyBag implements speech_config_get_property_bag.
// Every call issues a new bag handle the caller must release.
func (s *SDK) SpeechConfigGetPropertyBag(h speechsdk.Handle, out *speechsdk.Handle) native.Status {
	return s.propertyBagOf("speech_config_get_property_bag", h, KindSpeechConfig, out)
}

func (s *SDK) propertyBagOf(fn string, h speechsdk.Handle, k Kind, out *speechsdk.Handle) native.Status {
	if out == nil {
		return native.StatusInvalidArg
	}
	s.mu.Lock()
	if st, failed := s.enter(fn); failed {
		s.mu.Unlock()
		return st
	}
	v, ok := s.table.get(h, k)
	if !ok {
		s.mu.Unlock()
		return native.StatusInvalidHandle
	}

	var props *store
	switch owner := v.(type) {
	case *speechConfig:
		props = owner.props
	case *result:
		props = owner.props
	}
	bag, ev := s.newBagHandle(props)
	s.mu.Unlock()

	s.notify(ev)
	*out = bag
	return native.StatusOK
}
