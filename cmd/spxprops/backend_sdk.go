//go:build speechsdk

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/speech-sdk-go/native/sdk"
)

func openBackend(context.Context) (backend, error) {
	return backend{
		api:   sdk.New(),
		name:  "speech sdk",
		close: func(context.Context) error { return nil },
	}, nil
}

// The native library logs through its own file logger (SpeechLogFilename).
func setBackendLogger(*zap.Logger) {}
