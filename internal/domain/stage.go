package domain

// Stage identifies a step of the processing pipeline. Transitions are
// strictly sequential; Failed is reachable from any stage.
type Stage string

const (
	StageIdle                    Stage = "idle"
	StageRecording               Stage = "recording"
	StageTranscribing            Stage = "transcribing"
	StageAnalyzing               Stage = "analyzing"
	StageAwaitingPublishDecision Stage = "awaiting_publish_decision"
	StagePublishing              Stage = "publishing"
	StageDone                    Stage = "done"
	StageFailed                  Stage = "failed"
)
