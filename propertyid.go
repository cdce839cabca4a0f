package speechsdk

import (
	"slices"
	"strconv"
)

// PropertyID identifies a well-known property of the speech SDK.
// Values match the SDK's PropertyId enumeration.
type PropertyID int32

// PropertyIDByName is forwarded to the native call when a property is
// addressed by name instead of by id.
const PropertyIDByName PropertyID = -1

const (
	SpeechServiceConnectionKey            PropertyID = 1000
	SpeechServiceConnectionEndpoint       PropertyID = 1001
	SpeechServiceConnectionRegion         PropertyID = 1002
	SpeechServiceAuthorizationToken       PropertyID = 1003
	SpeechServiceAuthorizationType        PropertyID = 1004
	SpeechServiceConnectionEndpointID     PropertyID = 1005
	SpeechServiceConnectionHost           PropertyID = 1006
	SpeechServiceConnectionProxyHostName  PropertyID = 1100
	SpeechServiceConnectionProxyPort      PropertyID = 1101
	SpeechServiceConnectionProxyUserName  PropertyID = 1102
	SpeechServiceConnectionProxyPassword  PropertyID = 1103
	SpeechServiceConnectionURL            PropertyID = 1104
	SpeechServiceConnectionTranslationTo  PropertyID = 2000
	SpeechServiceConnectionTranslationVoc PropertyID = 2001
	SpeechServiceConnectionRecoMode       PropertyID = 3000
	SpeechServiceConnectionRecoLanguage   PropertyID = 3001
	SpeechSessionID                       PropertyID = 3002
	SpeechServiceConnectionSynthLanguage  PropertyID = 3100
	SpeechServiceConnectionSynthVoice     PropertyID = 3101
	SpeechServiceConnectionSynthFormat    PropertyID = 3102
	SpeechServiceConnectionInitialSilence PropertyID = 3200
	SpeechServiceConnectionEndSilence     PropertyID = 3201
	SpeechServiceConnectionAudioLogging   PropertyID = 3202
	SpeechServiceConnectionAutoDetectLang PropertyID = 3300
	SpeechServiceResponseDetailedResult   PropertyID = 4000
	SpeechServiceResponseProfanityFilter  PropertyID = 4001
	SpeechServiceResponseProfanityOption  PropertyID = 4002
	SpeechServiceResponsePostProcessing   PropertyID = 4003
	SpeechServiceResponseWordTimestamps   PropertyID = 4004
	SpeechServiceResponseOutputFormat     PropertyID = 4006
	SpeechServiceResponseJSONResult       PropertyID = 5000
	SpeechServiceResponseJSONErrorDetails PropertyID = 5001
	SpeechServiceResponseLatencyMs        PropertyID = 5002
	CancellationDetailsReason             PropertyID = 6000
	CancellationDetailsReasonText         PropertyID = 6001
	CancellationDetailsReasonDetailedText PropertyID = 6002
	AudioConfigDeviceNameForCapture       PropertyID = 8000
	AudioConfigNumberOfChannelsForCapture PropertyID = 8001
	AudioConfigSampleRateForCapture       PropertyID = 8002
	AudioConfigBitsPerSampleForCapture    PropertyID = 8003
	AudioConfigAudioSource                PropertyID = 8004
	SpeechLogFilename                     PropertyID = 9001
)

var propertyIDNames = map[PropertyID]string{
	PropertyIDByName:                      "ByName",
	SpeechServiceConnectionKey:            "SpeechServiceConnection_Key",
	SpeechServiceConnectionEndpoint:       "SpeechServiceConnection_Endpoint",
	SpeechServiceConnectionRegion:         "SpeechServiceConnection_Region",
	SpeechServiceAuthorizationToken:       "SpeechServiceAuthorization_Token",
	SpeechServiceAuthorizationType:        "SpeechServiceAuthorization_Type",
	SpeechServiceConnectionEndpointID:     "SpeechServiceConnection_EndpointId",
	SpeechServiceConnectionHost:           "SpeechServiceConnection_Host",
	SpeechServiceConnectionProxyHostName:  "SpeechServiceConnection_ProxyHostName",
	SpeechServiceConnectionProxyPort:      "SpeechServiceConnection_ProxyPort",
	SpeechServiceConnectionProxyUserName:  "SpeechServiceConnection_ProxyUserName",
	SpeechServiceConnectionProxyPassword:  "SpeechServiceConnection_ProxyPassword",
	SpeechServiceConnectionURL:            "SpeechServiceConnection_Url",
	SpeechServiceConnectionTranslationTo:  "SpeechServiceConnection_TranslationToLanguages",
	SpeechServiceConnectionTranslationVoc: "SpeechServiceConnection_TranslationVoice",
	SpeechServiceConnectionRecoMode:       "SpeechServiceConnection_RecoMode",
	SpeechServiceConnectionRecoLanguage:   "SpeechServiceConnection_RecoLanguage",
	SpeechSessionID:                       "Speech_SessionId",
	SpeechServiceConnectionSynthLanguage:  "SpeechServiceConnection_SynthLanguage",
	SpeechServiceConnectionSynthVoice:     "SpeechServiceConnection_SynthVoice",
	SpeechServiceConnectionSynthFormat:    "SpeechServiceConnection_SynthOutputFormat",
	SpeechServiceConnectionInitialSilence: "SpeechServiceConnection_InitialSilenceTimeoutMs",
	SpeechServiceConnectionEndSilence:     "SpeechServiceConnection_EndSilenceTimeoutMs",
	SpeechServiceConnectionAudioLogging:   "SpeechServiceConnection_EnableAudioLogging",
	SpeechServiceConnectionAutoDetectLang: "SpeechServiceConnection_AutoDetectSourceLanguages",
	SpeechServiceResponseDetailedResult:   "SpeechServiceResponse_RequestDetailedResultTrueFalse",
	SpeechServiceResponseProfanityFilter:  "SpeechServiceResponse_RequestProfanityFilterTrueFalse",
	SpeechServiceResponseProfanityOption:  "SpeechServiceResponse_ProfanityOption",
	SpeechServiceResponsePostProcessing:   "SpeechServiceResponse_PostProcessingOption",
	SpeechServiceResponseWordTimestamps:   "SpeechServiceResponse_RequestWordLevelTimestamps",
	SpeechServiceResponseOutputFormat:     "SpeechServiceResponse_OutputFormatOption",
	SpeechServiceResponseJSONResult:       "SpeechServiceResponse_JsonResult",
	SpeechServiceResponseJSONErrorDetails: "SpeechServiceResponse_JsonErrorDetails",
	SpeechServiceResponseLatencyMs:        "SpeechServiceResponse_RecognitionLatencyMs",
	CancellationDetailsReason:             "CancellationDetails_Reason",
	CancellationDetailsReasonText:         "CancellationDetails_ReasonText",
	CancellationDetailsReasonDetailedText: "CancellationDetails_ReasonDetailedText",
	AudioConfigDeviceNameForCapture:       "AudioConfig_DeviceNameForCapture",
	AudioConfigNumberOfChannelsForCapture: "AudioConfig_NumberOfChannelsForCapture",
	AudioConfigSampleRateForCapture:       "AudioConfig_SampleRateForCapture",
	AudioConfigBitsPerSampleForCapture:    "AudioConfig_BitsPerSampleForCapture",
	AudioConfigAudioSource:                "AudioConfig_AudioSource",
	SpeechLogFilename:                     "Speech_LogFilename",
}

// String returns the SDK enumerator name, or the number for unknown ids.
func (id PropertyID) String() string {
	if name, ok := propertyIDNames[id]; ok {
		return name
	}
	return "PropertyId(" + strconv.Itoa(int(id)) + ")"
}

// Known reports whether id is part of the enumeration.
func (id PropertyID) Known() bool {
	_, ok := propertyIDNames[id]
	return ok && id != PropertyIDByName
}

// PropertyIDs returns every known id in ascending order.
func PropertyIDs() []PropertyID {
	ids := make([]PropertyID, 0, len(propertyIDNames))
	for id := range propertyIDNames {
		if id != PropertyIDByName {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ParsePropertyID accepts an enumerator name or a decimal id.
func ParsePropertyID(s string) (PropertyID, bool) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return PropertyID(n), true
	}
	for id, name := range propertyIDNames {
		if name == s && id != PropertyIDByName {
			return id, true
		}
	}
	return 0, false
}
