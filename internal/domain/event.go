package domain

import (
	"encoding/json"

	"github.com/pion/webrtc/v3"
)

type EventType string

// Inbound event types (client -> server).
const (
	EventJoinRoom           EventType = "join-room"
	EventOffer              EventType = "offer"
	EventAnswer             EventType = "answer"
	EventICECandidate       EventType = "ice-candidate"
	EventScreenShareStarted EventType = "screen-sharing-started"
	EventScreenShareStopped EventType = "screen-sharing-stopped"
	EventDrawing            EventType = "drawing"
	EventClearCanvas        EventType = "clear-canvas"
	EventChatMessage        EventType = "chat-message"
	EventLeaveRoom          EventType = "leave-room"
)

// Outbound event types (server -> client). Offer/answer/ice-candidate,
// drawing, clear-canvas and chat-message reuse the inbound names.
const (
	EventUserJoined         EventType = "user-joined"
	EventExistingUsers      EventType = "existing-users"
	EventParticipantsUpdate EventType = "participants-update"
	EventUserScreenSharing  EventType = "user-screen-sharing"
	EventUserScreenStopped  EventType = "user-screen-stopped"
	EventUserLeft           EventType = "user-left"
)

// ParticipantInfo is the wire representation of a room member.
// SocketID is present on user-joined/existing-users so the recipient can
// address offers, and absent on participants-update snapshots.
type ParticipantInfo struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	SocketID string `json:"socketId,omitempty"`
}

// Event is the single envelope for every signaling message in either
// direction. Fields are optional and depend on Type; the SDP and
// candidate bodies are forwarded untouched.
type Event struct {
	Type      EventType                  `json:"type"`
	RoomID    string                     `json:"roomId,omitempty"`
	UserID    string                     `json:"userId,omitempty"`
	UserName  string                     `json:"userName,omitempty"`
	SocketID  string                     `json:"socketId,omitempty"`
	To        string                     `json:"to,omitempty"`
	From      string                     `json:"from,omitempty"`
	Offer     *webrtc.SessionDescription `json:"offer,omitempty"`
	Answer    *webrtc.SessionDescription `json:"answer,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
	Data      json.RawMessage            `json:"data,omitempty"`
	Message   json.RawMessage            `json:"message,omitempty"`

	Users        []ParticipantInfo `json:"users,omitempty"`
	Participants []ParticipantInfo `json:"participants,omitempty"`
	Count        int               `json:"count,omitempty"`
}
