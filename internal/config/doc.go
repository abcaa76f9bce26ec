// Package config loads the hookstorm runtime configuration.
//
// Settings are merged from three layers, later layers overriding earlier
// ones:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file, chosen by extension
//  3. HOOKSTORM_* environment variables
//
// A file looks like:
//
//	[runtime]
//	fps = 30
//	pollTimeout = "16ms"
//	exitOnCtrlC = true
//	mouse = false
//	paste = false
//
//	[logging]
//	level = "info"
//	file = "/tmp/hookstorm.log"
//
// Watcher reports changes to the file so a running program can reapply the
// frame rate and log level without restarting.
package config
