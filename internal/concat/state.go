package concat

// State is a pipeline run's position in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring"
	StateStage1    State = "init_frames"
	StateStage2    State = "render_frames"
	StateStage3    State = "transcode_video"
	StateReleasing State = "releasing"
	StateDone      State = "done"
	StateErrored   State = "errored"
)

func (s State) String() string { return string(s) }
