// Package config provides configuration management for the router services.
//
// Configuration is loaded from environment variables and validated on
// startup. All options have development defaults except GEMINI_API_KEY,
// which is optional: without it the cloud fallback stage degrades to empty
// results.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
