//go:build !speechsdk

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseProfile(t *testing.T) {
	data := []byte(`
SpeechServiceConnection_RecoLanguage: de-DE
SpeechServiceResponse_RequestWordLevelTimestamps: true
"3101": de-DE-KatjaNeural
initial-silence-ms: 1500
ratio: 0.5
empty:
`)

	got, err := parseProfile(data)
	if err != nil {
		t.Fatalf("parseProfile failed: %v", err)
	}
	want := []string{
		"3101=de-DE-KatjaNeural",
		"SpeechServiceConnection_RecoLanguage=de-DE",
		"SpeechServiceResponse_RequestWordLevelTimestamps=true",
		"empty=",
		"initial-silence-ms=1500",
		"ratio=0.5",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("parseProfile = %q, want %q", got, want)
	}
}

func TestParseProfile_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"nested mapping", "outer:\n  inner: 1\n"},
		{"list value", "langs: [en-US, de-DE]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProfile([]byte(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRun_ProfileRoundTrip(t *testing.T) {
	be, _ := newBackend(t)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	profile := "SpeechServiceConnection_RecoLanguage: fr-FR\nSpeechServiceConnection_SynthVoice: fr-FR-DeniseNeural\n"
	if err := os.WriteFile(path, []byte(profile), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var out bytes.Buffer
	// -set is applied after the profile
	opts := options{
		profile: path,
		sets:    []string{"SpeechServiceConnection_RecoLanguage=fr-CA"},
		yaml:    true,
	}
	if err := run(be, opts, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var got map[string]string
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if got["SpeechServiceConnection_RecoLanguage"] != "fr-CA" {
		t.Fatalf("RecoLanguage = %q, want fr-CA", got["SpeechServiceConnection_RecoLanguage"])
	}
	if got["SpeechServiceConnection_SynthVoice"] != "fr-FR-DeniseNeural" {
		t.Fatalf("SynthVoice = %q", got["SpeechServiceConnection_SynthVoice"])
	}
	if got["SpeechServiceConnection_Region"] != "westus" {
		t.Fatalf("Region = %q, want westus", got["SpeechServiceConnection_Region"])
	}
	if strings.Contains(out.String(), "SpeechServiceConnection_Key") {
		t.Fatalf("profile leaks the key:\n%s", out.String())
	}
}
