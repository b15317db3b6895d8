// Package config loads match rules and process settings.
//
// Match rules come from YAML or CUE files. Either may name a preset; the
// file's own fields then override the preset. Every loaded config passes
// Validate before it reaches the scoring core, which trusts its input.
//
// Process settings come from TENNIS_* environment variables.
package config
