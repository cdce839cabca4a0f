//go:build !speechsdk

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/speech-sdk-go/native/sim"
)

func openBackend(ctx context.Context) (backend, error) {
	s, err := sim.New(ctx, sim.DefaultConfig())
	if err != nil {
		return backend{}, err
	}
	return backend{
		api:    s,
		name:   "simulated",
		close:  s.Close,
		key:    "simulated-key",
		region: "westus",
	}, nil
}

func setBackendLogger(l *zap.Logger) {
	sim.SetLogger(l)
}
