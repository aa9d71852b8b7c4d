package obs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoMatch is returned by Router.Match when no template matches an address.
var ErrNoMatch = errors.New("no matching route")

// captureSegment marks an integer capture in a template pattern.
const captureSegment = "{n}"

// Match is the result of routing an address.
type Match struct {
	Kind Kind
	// Captures holds the integer segments in address order, as written
	// (1-based for scene and transition numbers).
	Captures []int
	// Args holds the decoded OSC arguments of the message.
	Args []interface{}
}

type segment struct {
	literal string
	capture bool
}

// Template is a parsed route pattern such as /obs/scene/{n}/go.
type Template struct {
	Kind     Kind
	Pattern  string
	segments []segment
}

// ParseTemplate parses pattern into a Template of the given kind.
// Segments are separated by '/'; "{n}" captures a non-negative decimal integer.
func ParseTemplate(pattern string, kind Kind) (*Template, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("ParseTemplate: %q must start with '/'", pattern)
	}

	t := &Template{Kind: kind, Pattern: pattern}
	for _, part := range splitAddress(pattern) {
		if part == captureSegment {
			t.segments = append(t.segments, segment{capture: true})
			continue
		}
		if strings.ContainsAny(part, "*?,[]{}# ") {
			return nil, fmt.Errorf("ParseTemplate: literal %q may not contain any characters in \"*?,[]{}# \"", part)
		}
		t.segments = append(t.segments, segment{literal: part})
	}

	if len(t.segments) == 0 {
		return nil, fmt.Errorf("ParseTemplate: %q has no segments", pattern)
	}
	if n := t.captureCount(); n != kind.captures() {
		return nil, fmt.Errorf("ParseTemplate: %q has %d captures, %s needs %d", pattern, n, kind, kind.captures())
	}

	return t, nil
}

func (t *Template) captureCount() int {
	n := 0
	for _, s := range t.segments {
		if s.capture {
			n++
		}
	}
	return n
}

// match compares address segments positionally against the template.
func (t *Template) match(parts []string) ([]int, bool) {
	if len(parts) != len(t.segments) {
		return nil, false
	}

	var captures []int
	for i, s := range t.segments {
		if !s.capture {
			if parts[i] != s.literal {
				return nil, false
			}
			continue
		}
		n, ok := parseCapture(parts[i])
		if !ok {
			return nil, false
		}
		captures = append(captures, n)
	}

	return captures, true
}

// parseCapture accepts only ASCII digits; values that overflow int are rejected.
func parseCapture(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitAddress splits an address on '/' and drops empty segments.
func splitAddress(addr string) []string {
	return strings.FieldsFunc(addr, func(r rune) bool { return r == '/' })
}

// Router matches addresses against a fixed set of templates.
type Router struct {
	templates []*Template
	// bySize indexes templates by segment count; only equal counts can match.
	bySize map[int][]*Template
}

// AddTemplate parses pattern and adds it to the router.
func (r *Router) AddTemplate(pattern string, kind Kind) error {
	if r.bySize == nil {
		r.bySize = make(map[int][]*Template)
	}

	t, err := ParseTemplate(pattern, kind)
	if err != nil {
		return err
	}

	for _, existing := range r.bySize[len(t.segments)] {
		if sameShape(existing, t) {
			return fmt.Errorf("AddTemplate: %q overlaps existing template %q", pattern, existing.Pattern)
		}
	}

	r.templates = append(r.templates, t)
	r.bySize[len(t.segments)] = append(r.bySize[len(t.segments)], t)
	return nil
}

// sameShape reports whether two templates of equal length have identical segments.
func sameShape(a, b *Template) bool {
	for i := range a.segments {
		if a.segments[i] != b.segments[i] {
			return false
		}
	}
	return true
}

// Match routes addr. It returns ErrNoMatch when no template matches.
func (r *Router) Match(addr string) (Match, error) {
	parts := splitAddress(addr)
	for _, t := range r.bySize[len(parts)] {
		if captures, ok := t.match(parts); ok {
			return Match{Kind: t.Kind, Captures: captures}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %s", ErrNoMatch, addr)
}

// Templates returns the templates in the order they were added.
func (r *Router) Templates() []*Template {
	return append([]*Template(nil), r.templates...)
}

// Routes is the fixed /obs address grammar.
var Routes = []struct {
	Pattern string
	Kind    Kind
}{
	{"/obs/transition/start", TransitionStart},
	{"/obs/transition/{n}/select", TransitionSelect},
	{"/obs/transition/{n}/start", TransitionSelectAndStart},
	{"/obs/scene/{n}/preview", ScenePreview},
	{"/obs/scene/{n}/start", SceneStart},
	{"/obs/scene/{n}/go", SceneGo},
	{"/obs/scene/{n}/transition/{n}/start", SceneTransitionStart},
	{"/obs/scene/{n}/transition/{n}/go", SceneTransitionGo},
	{"/obs/go", Go},
	{"/obs/recording/start", RecordingStart},
	{"/obs/recording/stop", RecordingStop},
	{"/obs/streaming/start", StreamingStart},
	{"/obs/streaming/stop", StreamingStop},
	{"/obs/transition/duration", TransitionDuration},
	{"/obs/transition/{n}/duration", TransitionDurationAt},
	{"/obs/transition/duration/{n}", TransitionDurationValue},
	{"/obs/source/volume", SourceVolume},
}

// NewRouter returns a Router loaded with Routes.
func NewRouter() *Router {
	r := &Router{}
	for _, route := range Routes {
		if err := r.AddTemplate(route.Pattern, route.Kind); err != nil {
			panic(err)
		}
	}
	return r
}
