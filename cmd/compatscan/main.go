// Package main provides the entry point for the compatscan CLI.
//
// compatscan analyzes a web page for cross-browser and cross-device
// compatibility: it infers which page features require specific engine
// versions, estimates behavior under simulated clients, and optionally
// confirms results with real headless-browser sessions.
//
// Usage:
//
//	compatscan scan https://example.com
//	compatscan history --target https://example.com
//
// See --help for all available options.
package main

// main is the entry point for compatscan.
func main() {
	Execute()
}
