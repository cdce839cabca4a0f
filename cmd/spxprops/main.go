// Command spxprops inspects and edits the property bag of a speech config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	speechsdk "github.com/wippyai/speech-sdk-go"
	sdkerrors "github.com/wippyai/speech-sdk-go/errors"
	"github.com/wippyai/speech-sdk-go/handle"
	"github.com/wippyai/speech-sdk-go/speech"
)

// backend is the native API in use and its teardown.
type backend struct {
	api   speech.ConfigAPI
	name  string
	close func(context.Context) error
	// key and region are used when neither flags nor environment set them.
	key, region string
}

// assignments collects repeated -set flags.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	*a = append(*a, v)
	return nil
}

type options struct {
	key         string
	region      string
	endpoint    string
	profile     string
	sets        []string
	get         string
	list        bool
	yaml        bool
	interactive bool
}

// batch reports whether any non-interactive action was requested.
func (o options) batch() bool {
	return o.get != "" || o.list || o.yaml || len(o.sets) > 0 || o.profile != ""
}

func main() {
	var (
		opts options
		sets assignments
	)
	flag.StringVar(&opts.key, "key", os.Getenv("SPEECH_KEY"), "Subscription key (default $SPEECH_KEY)")
	flag.StringVar(&opts.region, "region", os.Getenv("SPEECH_REGION"), "Service region (default $SPEECH_REGION)")
	flag.StringVar(&opts.endpoint, "endpoint", "", "Custom endpoint URL, used instead of -region")
	flag.StringVar(&opts.profile, "load", "", "YAML file of properties to apply before -set")
	flag.StringVar(&opts.get, "get", "", "Properties to print (comma-separated ids or names)")
	flag.BoolVar(&opts.list, "list", false, "List every SDK property that has a value")
	flag.BoolVar(&opts.yaml, "yaml", false, "Print every SDK property that has a value as a YAML profile")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI (default on a terminal)")
	verbose := flag.Bool("v", false, "Log native handle activity to stderr")
	flag.Var(&sets, "set", "Property assignment key=value (repeatable)")
	flag.Parse()
	opts.sets = sets

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		setLogger(l)
	}

	ctx := context.Background()
	be, err := openBackend(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code := 0
	if err := run(be, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}
	if err := be.close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: close %s backend: %v\n", be.name, err)
		code = 1
	}
	os.Exit(code)
}

func setLogger(l *zap.Logger) {
	handle.SetLogger(l.Named("handle"))
	setBackendLogger(l.Named("native"))
}

func run(be backend, opts options, out io.Writer) error {
	if opts.key == "" {
		opts.key = be.key
	}
	if opts.region == "" && opts.endpoint == "" {
		opts.region = be.region
	}

	cfg, err := openConfig(be.api, opts.key, opts.region, opts.endpoint)
	if err != nil {
		return err
	}
	defer cfg.Close()

	var sets []string
	if opts.profile != "" {
		if sets, err = loadProfile(opts.profile); err != nil {
			return err
		}
	}
	for _, kv := range append(sets, opts.sets...) {
		k, v, _ := strings.Cut(kv, "=")
		if err := put(cfg, k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}

	if opts.interactive || (!opts.batch() && isTerminal(out)) {
		return runInteractive(cfg, be.name)
	}

	if opts.get != "" {
		for _, k := range strings.Split(opts.get, ",") {
			k = strings.TrimSpace(k)
			v, err := lookup(cfg, k)
			if err != nil {
				return fmt.Errorf("get %s: %w", k, err)
			}
			fmt.Fprintf(out, "%s=%s\n", k, v)
		}
	}

	switch {
	case opts.yaml:
		return writeProfile(cfg, out)
	case opts.list || !opts.batch():
		return printAll(cfg, out)
	}
	return nil
}

func openConfig(api speech.ConfigAPI, key, region, endpoint string) (*speech.Config, error) {
	if key == "" {
		return nil, fmt.Errorf("no subscription key: use -key or set SPEECH_KEY")
	}
	if endpoint != "" {
		return speech.NewConfigFromEndpoint(api, endpoint, key)
	}
	if region == "" {
		return nil, fmt.Errorf("no region: use -region, -endpoint or set SPEECH_REGION")
	}
	return speech.NewConfigFromSubscription(api, key, region)
}

// resolve maps a flag key to a property id. Anything that is not an SDK
// property id or name is a custom property name.
func resolve(k string) (speechsdk.PropertyID, bool) {
	id, ok := speechsdk.ParsePropertyID(k)
	if !ok || id == speechsdk.PropertyIDByName {
		return 0, false
	}
	return id, true
}

func lookup(cfg *speech.Config, k string) (string, error) {
	if id, ok := resolve(k); ok {
		return cfg.GetByID(id)
	}
	return cfg.GetByName(k)
}

func put(cfg *speech.Config, k, v string) error {
	if id, ok := resolve(k); ok {
		return cfg.PutByID(id, v)
	}
	return cfg.PutByName(k, v)
}

// setValues calls fn for every SDK property that has a value.
func setValues(cfg *speech.Config, fn func(id speechsdk.PropertyID, v string)) error {
	for _, id := range speechsdk.PropertyIDs() {
		v, err := cfg.GetByID(id)
		if err != nil {
			// ids unknown to the native store come back as NULL
			if _, coded := sdkerrors.StatusCode(err); !coded && errors.Is(err, sdkerrors.ErrNativeCall) {
				continue
			}
			return fmt.Errorf("get %s: %w", id, err)
		}
		if v != "" {
			fn(id, v)
		}
	}
	return nil
}

func printAll(cfg *speech.Config, out io.Writer) error {
	return setValues(cfg, func(id speechsdk.PropertyID, v string) {
		fmt.Fprintf(out, "%-5d %-45s %s\n", int32(id), id, mask(id, v))
	})
}

// secret reports whether id holds a credential.
func secret(id speechsdk.PropertyID) bool {
	switch id {
	case speechsdk.SpeechServiceConnectionKey,
		speechsdk.SpeechServiceAuthorizationToken,
		speechsdk.SpeechServiceConnectionProxyPassword:
		return true
	}
	return false
}

// mask hides secrets in listings.
func mask(id speechsdk.PropertyID, v string) string {
	if !secret(id) {
		return v
	}
	if len(v) <= 4 {
		return "****"
	}
	return v[:2] + strings.Repeat("*", len(v)-4) + v[len(v)-2:]
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
