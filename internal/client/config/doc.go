// Package config assembles the client's runtime configuration from four
// layered sources, later ones winning: built-in defaults, a JSON file
// (-c/-config), environment variables, and command-line flags.
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// duration strings ("10s") or integer nanoseconds.
package config
