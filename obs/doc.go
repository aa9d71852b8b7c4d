// Package obs drives a production-switching host from OSC addresses.
//
// A Router matches addresses such as /obs/scene/2/go against a fixed grammar
// and extracts the 1-based numbers in them. A Sequencer holds the current
// preview scene and transition and turns each match into ControlSurface calls.
// The scene actions advance the preview to the next scene, wrapping at the end
// of the list, right after the transition is executed.
//
// Bridge ties both to the osc package: it is an osc.Handler that decodes,
// routes and applies one datagram at a time and never lets an error escape.
package obs
