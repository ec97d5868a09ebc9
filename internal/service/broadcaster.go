package service

// Broadcaster pushes live events to WebSocket clients (avoids import cycle with ws)
type Broadcaster interface {
	BroadcastToAuthors(assessmentID string, msgType string, payload interface{})
	BroadcastToCandidate(assessmentID, candidateID string, msgType string, payload interface{})
	BroadcastToCandidates(assessmentID string, msgType string, payload interface{})
}

// Event types sent over the broadcaster
const (
	EventProgressUpdate    = "progress_update"
	EventResponseSubmitted = "response_submitted"
	EventAssessmentUpdated = "assessment_updated"
)

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToAuthors(string, string, interface{})           {}
func (noopBroadcaster) BroadcastToCandidate(string, string, string, interface{}) {}
func (noopBroadcaster) BroadcastToCandidates(string, string, interface{})        {}
