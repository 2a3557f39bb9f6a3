// Package main hosts the geotag CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, builds the
// structured logger, and hands off to the internal packages: "run" drives
// the workflow manager, "show" and "store" browse the location store,
// "cache" inspects the durable memo cache, and "check" runs the preflight
// checks. Keep this package lean and put behavior in internal packages.
package main
