package ws

import (
	"encoding/json"
	"sync"

	"talentflow/internal/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Author message types
const (
	MsgCandidateConnected    MessageType = "candidate_connected"
	MsgCandidateDisconnected MessageType = "candidate_disconnected"
	MsgProgressUpdate        MessageType = "progress_update"
	MsgResponseSubmitted     MessageType = "response_submitted"
)

// Candidate message types
const (
	MsgAssessmentUpdated MessageType = "assessment_updated"
	MsgError             MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per assessment
type Hub struct {
	authorConns    map[string]map[*Connection]bool  // assessmentID -> author conns
	candidateConns map[string]map[string]*Connection // assessmentID -> candidateID -> conn

	mu  sync.RWMutex
	log *logger.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	AssessmentID string
	CandidateID  string // Empty for author connections
	IsAuthor     bool
	Send         chan []byte
	Hub          *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	AssessmentID string
	ToAuthors    bool
	ToCandidate  string // Empty means all candidates
	Message      *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		authorConns:    make(map[string]map[*Connection]bool),
		candidateConns: make(map[string]map[string]*Connection),
		log:            log,
		register:       make(chan *Connection),
		unregister:     make(chan *Connection),
		broadcast:      make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsAuthor {
				if h.authorConns[conn.AssessmentID] == nil {
					h.authorConns[conn.AssessmentID] = make(map[*Connection]bool)
				}
				h.authorConns[conn.AssessmentID][conn] = true
				h.log.Info("author connected", "assessmentId", conn.AssessmentID)
			} else {
				if h.candidateConns[conn.AssessmentID] == nil {
					h.candidateConns[conn.AssessmentID] = make(map[string]*Connection)
				}
				// a second tab replaces the first
				if old, ok := h.candidateConns[conn.AssessmentID][conn.CandidateID]; ok {
					close(old.Send)
				}
				h.candidateConns[conn.AssessmentID][conn.CandidateID] = conn
				h.log.Info("candidate connected", "assessmentId", conn.AssessmentID, "candidateId", conn.CandidateID)
				h.notifyAuthors(conn.AssessmentID, MsgCandidateConnected, conn.CandidateID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsAuthor {
				if conns, ok := h.authorConns[conn.AssessmentID]; ok && conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.authorConns, conn.AssessmentID)
					}
					h.log.Info("author disconnected", "assessmentId", conn.AssessmentID)
				}
			} else {
				if candidates, ok := h.candidateConns[conn.AssessmentID]; ok {
					if existing, ok := candidates[conn.CandidateID]; ok && existing == conn {
						delete(candidates, conn.CandidateID)
						close(conn.Send)
						h.log.Info("candidate disconnected", "assessmentId", conn.AssessmentID, "candidateId", conn.CandidateID)
						h.notifyAuthors(conn.AssessmentID, MsgCandidateDisconnected, conn.CandidateID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Error("encode broadcast", "error", err)
				h.mu.RUnlock()
				continue
			}

			switch {
			case msg.ToAuthors:
				for conn := range h.authorConns[msg.AssessmentID] {
					trySend(conn, data)
				}
			case msg.ToCandidate != "":
				if conn, ok := h.candidateConns[msg.AssessmentID][msg.ToCandidate]; ok {
					trySend(conn, data)
				}
			default:
				for _, conn := range h.candidateConns[msg.AssessmentID] {
					trySend(conn, data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// trySend drops the message when the client is not keeping up
func trySend(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

func (h *Hub) enqueue(msg *BroadcastMessage, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("encode payload", "type", msgType, "error", err)
		return
	}
	msg.Message = &Message{Type: MessageType(msgType), Payload: data}
	h.broadcast <- msg
}

// BroadcastToAuthors sends a message to every author watching an assessment (implements service.Broadcaster)
func (h *Hub) BroadcastToAuthors(assessmentID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{AssessmentID: assessmentID, ToAuthors: true}, msgType, payload)
}

// BroadcastToCandidate sends a message to one candidate (implements service.Broadcaster)
func (h *Hub) BroadcastToCandidate(assessmentID, candidateID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{AssessmentID: assessmentID, ToCandidate: candidateID}, msgType, payload)
}

// BroadcastToCandidates sends a message to every connected candidate (implements service.Broadcaster)
func (h *Hub) BroadcastToCandidates(assessmentID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{AssessmentID: assessmentID}, msgType, payload)
}

// notifyAuthors is called from run with the lock held
func (h *Hub) notifyAuthors(assessmentID string, msgType MessageType, candidateID string) {
	payload, _ := json.Marshal(map[string]string{"candidateId": candidateID})
	data, _ := json.Marshal(&Message{Type: msgType, Payload: payload})
	for conn := range h.authorConns[assessmentID] {
		trySend(conn, data)
	}
}
