// Package speech provides the SDK objects built on property bags: the
// speech configuration and recognition results.
//
// Both are property.Object values, so the bag accessors (GetByID,
// PutByName, ...) are available directly:
//
//	cfg, err := speech.NewConfigFromSubscription(api, key, region)
//	if err != nil {
//		return err
//	}
//	defer cfg.Close()
//
//	if err := cfg.SetSpeechRecognitionLanguage("de-DE"); err != nil {
//		return err
//	}
package speech
