package speech

import (
	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/handle"
	"github.com/wippyai/speech-sdk-go/marshal"
	"github.com/wippyai/speech-sdk-go/native"
	"github.com/wippyai/speech-sdk-go/property"
)

// ConfigAPI is the native surface used by Config.
type ConfigAPI interface {
	property.API
	native.SpeechConfigAPI
}

func configKind(api ConfigAPI) *handle.Kind[speechsdk.Handle] {
	return &handle.Kind[speechsdk.Handle]{
		Name: "speech_config",
		Release: func(h speechsdk.Handle) error {
			return native.CheckFunc("speech_config_release", api.SpeechConfigRelease(h))
		},
		IsValid: api.SpeechConfigIsHandleValid,
	}
}

// Config is a speech service configuration.
type Config struct {
	*property.Object
}

// NewConfigFromSubscription creates a configuration for a subscription key
// and service region.
func NewConfigFromSubscription(api ConfigAPI, key, region string) (*Config, error) {
	a := marshal.NewArena(api)
	defer a.Free()
	ptrs, err := a.Strings(key, region)
	if err != nil {
		return nil, err
	}

	var h speechsdk.Handle
	if err := native.CheckFunc("speech_config_from_subscription",
		api.SpeechConfigFromSubscription(&h, ptrs[0], ptrs[1])); err != nil {
		return nil, err
	}
	return NewConfigFromHandle(api, h)
}

// NewConfigFromEndpoint creates a configuration for a custom service
// endpoint.
func NewConfigFromEndpoint(api ConfigAPI, endpoint, key string) (*Config, error) {
	a := marshal.NewArena(api)
	defer a.Free()
	ptrs, err := a.Strings(endpoint, key)
	if err != nil {
		return nil, err
	}

	var h speechsdk.Handle
	if err := native.CheckFunc("speech_config_from_endpoint",
		api.SpeechConfigFromEndpoint(&h, ptrs[0], ptrs[1])); err != nil {
		return nil, err
	}
	return NewConfigFromHandle(api, h)
}

// NewConfigFromHandle adopts a native speech config handle. The handle is
// released if its property bag cannot be fetched.
func NewConfigFromHandle(api ConfigAPI, h speechsdk.Handle) (*Config, error) {
	obj, err := property.NewObject(api, configKind(api), h,
		"speech_config_get_property_bag", api.SpeechConfigGetPropertyBag)
	if err != nil {
		return nil, err
	}
	return &Config{Object: obj}, nil
}

// SubscriptionKey returns the configured subscription key.
func (c *Config) SubscriptionKey() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionKey)
}

// Region returns the configured service region.
func (c *Config) Region() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionRegion)
}

// Endpoint returns the configured custom endpoint.
func (c *Config) Endpoint() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionEndpoint)
}

func (c *Config) SetSpeechRecognitionLanguage(lang string) error {
	return c.PutByID(speechsdk.SpeechServiceConnectionRecoLanguage, lang)
}

func (c *Config) SpeechRecognitionLanguage() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionRecoLanguage)
}

func (c *Config) SetSpeechSynthesisLanguage(lang string) error {
	return c.PutByID(speechsdk.SpeechServiceConnectionSynthLanguage, lang)
}

func (c *Config) SpeechSynthesisLanguage() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionSynthLanguage)
}

func (c *Config) SetSpeechSynthesisVoiceName(voice string) error {
	return c.PutByID(speechsdk.SpeechServiceConnectionSynthVoice, voice)
}

func (c *Config) SpeechSynthesisVoiceName() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionSynthVoice)
}

// SetEndpointID selects a custom model deployment.
func (c *Config) SetEndpointID(id string) error {
	return c.PutByID(speechsdk.SpeechServiceConnectionEndpointID, id)
}

func (c *Config) EndpointID() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceConnectionEndpointID)
}

// SetAuthorizationToken replaces the authorization token. Tokens expire and
// must be refreshed by the caller.
func (c *Config) SetAuthorizationToken(token string) error {
	return c.PutByID(speechsdk.SpeechServiceAuthorizationToken, token)
}

func (c *Config) AuthorizationToken() (string, error) {
	return c.GetByID(speechsdk.SpeechServiceAuthorizationToken)
}
