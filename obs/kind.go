package obs

// Kind identifies the command shape of a matched address.
type Kind int

const (
	KindInvalid Kind = iota
	TransitionStart
	TransitionSelect
	TransitionSelectAndStart
	ScenePreview
	SceneStart
	SceneGo
	SceneTransitionStart
	SceneTransitionGo
	Go
	RecordingStart
	RecordingStop
	StreamingStart
	StreamingStop
	TransitionDuration
	TransitionDurationAt
	TransitionDurationValue
	SourceVolume
)

var kindNames = [...]string{
	KindInvalid:              "invalid",
	TransitionStart:          "transition_start",
	TransitionSelect:         "transition_select",
	TransitionSelectAndStart: "transition_select_and_start",
	ScenePreview:             "scene_preview",
	SceneStart:               "scene_start",
	SceneGo:                  "scene_go",
	SceneTransitionStart:     "scene_transition_start",
	SceneTransitionGo:        "scene_transition_go",
	Go:                       "go",
	RecordingStart:           "recording_start",
	RecordingStop:            "recording_stop",
	StreamingStart:           "streaming_start",
	StreamingStop:            "streaming_stop",
	TransitionDuration:       "transition_duration",
	TransitionDurationAt:     "transition_duration_at",
	TransitionDurationValue:  "transition_duration_value",
	SourceVolume:             "source_volume",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// captures is the number of integer captures a route of this kind carries.
func (k Kind) captures() int {
	switch k {
	case TransitionSelect, TransitionSelectAndStart, ScenePreview, SceneStart, SceneGo,
		TransitionDurationAt, TransitionDurationValue:
		return 1
	case SceneTransitionStart, SceneTransitionGo:
		return 2
	default:
		return 0
	}
}

// takesValue reports whether the kind reads its value from the message
// arguments rather than treating them as a button trigger.
func (k Kind) takesValue() bool {
	return k == TransitionDuration || k == TransitionDurationAt || k == SourceVolume
}
