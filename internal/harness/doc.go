// Package harness runs declarative streak scenarios for conformance
// testing.
//
// A scenario is a YAML file describing a session: a start instant, a
// sequence of timed steps (activity events and daily flag clears), and
// assertions over the resulting trace. The harness executes the scenario
// against a real tracker backed by an in-memory store and a fake clock,
// so runs are fully deterministic and each trace can be compared against
// a golden file.
package harness
