package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/property"
	"github.com/wippyai/speech-sdk-go/speech"
)

// A profile is a flat YAML mapping from property keys (SDK names, numeric
// ids or custom names) to scalar values:
//
//	SpeechServiceConnection_RecoLanguage: de-DE
//	SpeechServiceResponse_RequestWordLevelTimestamps: true
//	my-session-tag: demo

// loadProfile reads a profile and returns its entries as sorted key=value
// assignments.
func loadProfile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return parseProfile(data)
}

func parseProfile(data []byte) ([]string, error) {
	var entries map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	sets := make([]string, 0, len(entries))
	for k, v := range entries {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("profile entry %q: value must be a scalar", k)
		case nil:
			v = ""
		}
		sets = append(sets, k+"="+property.Text(v))
	}
	slices.Sort(sets)
	return sets, nil
}

// writeProfile prints every SDK property that has a value as a profile.
// Credentials are left out so the output can be shared.
func writeProfile(cfg *speech.Config, out io.Writer) error {
	entries := make(map[string]string)
	err := setValues(cfg, func(id speechsdk.PropertyID, v string) {
		if !secret(id) {
			entries[id.String()] = v
		}
	})
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(entries)
}
