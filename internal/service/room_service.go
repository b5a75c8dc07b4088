package service

import (
	"log/slog"
	"sync"

	"github.com/Molza01/Communicaton-Web-App/internal/domain"
)

type connBinding struct {
	roomID string
	userID string
}

type eventHandler func(client *domain.Client, event *domain.Event)

// RoomService owns the in-memory room directory: the room table, the
// registry of live connections, and a reverse index from connection id
// to room/user so abrupt disconnects clean up without a full scan.
// Mutations to the directory happen under the service mutex with the
// affected room's mutex nested inside, so two joins or leaves on the
// same room can never lose an update; broadcasts are computed inside
// the critical section and delivered after it.
type RoomService struct {
	log *slog.Logger

	mu    sync.RWMutex
	rooms map[string]*domain.Room
	conns map[string]*domain.Client
	index map[string]connBinding

	handlers map[domain.EventType]eventHandler
}

func NewRoomService(log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}

	s := &RoomService{
		log:   log,
		rooms: make(map[string]*domain.Room),
		conns: make(map[string]*domain.Client),
		index: make(map[string]connBinding),
	}

	s.handlers = map[domain.EventType]eventHandler{
		domain.EventJoinRoom:           s.handleJoin,
		domain.EventLeaveRoom:          s.handleLeave,
		domain.EventOffer:              s.handleOffer,
		domain.EventAnswer:             s.handleAnswer,
		domain.EventICECandidate:       s.handleICECandidate,
		domain.EventScreenShareStarted: s.handleScreenShareStarted,
		domain.EventScreenShareStopped: s.handleScreenShareStopped,
		domain.EventDrawing:            s.handleDrawing,
		domain.EventClearCanvas:        s.handleClearCanvas,
		domain.EventChatMessage:        s.handleChatMessage,
	}

	return s
}

// RegisterClient makes a freshly upgraded connection addressable by the
// relay. The client is not in any room until it sends join-room.
func (s *RoomService) RegisterClient(client *domain.Client) {
	s.mu.Lock()
	s.conns[client.ID] = client
	s.mu.Unlock()

	s.log.Info("client connected", slog.String("conn", client.ID))
}

// UnregisterClient handles abrupt transport loss. The disconnect event
// carries only the connection id, so the reverse index locates the
// room/user binding; cleanup is then identical to an explicit leave.
func (s *RoomService) UnregisterClient(connectionID string) {
	s.mu.Lock()
	client := s.conns[connectionID]
	delete(s.conns, connectionID)
	binding, joined := s.index[connectionID]
	s.mu.Unlock()

	if joined {
		s.removeParticipant(binding.roomID, binding.userID, connectionID)
	}

	if client != nil {
		client.Close()
	}

	s.log.Info("client disconnected", slog.String("conn", connectionID))
}

// Dispatch routes one inbound event through the handler table. Unknown
// or malformed events are dropped for the sending connection only; no
// handler failure may disturb the shared directory or other sessions.
func (s *RoomService) Dispatch(client *domain.Client, event *domain.Event) {
	if client == nil || event == nil {
		return
	}

	handler, ok := s.handlers[event.Type]
	if !ok {
		s.log.Warn("unsupported event type",
			slog.String("type", string(event.Type)),
			slog.String("conn", client.ID),
		)
		return
	}

	handler(client, event)
}

func (s *RoomService) handleJoin(client *domain.Client, event *domain.Event) {
	const op = "service.room.join"

	if event.RoomID == "" || event.UserID == "" {
		s.log.Warn("join-room missing roomId or userId",
			slog.String("op", op),
			slog.String("conn", client.ID),
		)
		return
	}

	// One membership per connection: joining somewhere else first
	// leaves the previous room, keeping the disconnect cleanup sound.
	if prevRoom, prevUser := client.Binding(); prevRoom != "" &&
		(prevRoom != event.RoomID || prevUser != event.UserID) {
		s.removeParticipant(prevRoom, prevUser, client.ID)
	}

	s.mu.Lock()
	room, ok := s.rooms[event.RoomID]
	if !ok {
		room = domain.NewRoom(event.RoomID)
		s.rooms[event.RoomID] = room
	}

	room.Mutex.Lock()
	prev := room.Participants[event.UserID]
	room.Participants[event.UserID] = &domain.Participant{
		ConnectionID: client.ID,
		UserName:     event.UserName,
	}

	existing := make([]domain.ParticipantInfo, 0, len(room.Participants)-1)
	presence := make([]domain.ParticipantInfo, 0, len(room.Participants))
	targets := make([]string, 0, len(room.Participants))
	for userID, p := range room.Participants {
		presence = append(presence, domain.ParticipantInfo{
			UserID:   userID,
			UserName: p.UserName,
		})
		if userID != event.UserID {
			existing = append(existing, domain.ParticipantInfo{
				UserID:   userID,
				UserName: p.UserName,
				SocketID: p.ConnectionID,
			})
			targets = append(targets, p.ConnectionID)
		}
	}
	count := len(room.Participants)
	room.Mutex.Unlock()

	// A re-join with the same user id replaces the prior entry; the
	// stale connection keeps its socket but is orphaned from the room.
	if prev != nil && prev.ConnectionID != client.ID {
		delete(s.index, prev.ConnectionID)
	}
	s.index[client.ID] = connBinding{roomID: event.RoomID, userID: event.UserID}
	s.mu.Unlock()

	client.Bind(event.RoomID, event.UserID, event.UserName)

	// Existing members learn about the newcomer and wait for its offer.
	s.deliver(targets, domain.Event{
		Type:     domain.EventUserJoined,
		UserID:   event.UserID,
		UserName: event.UserName,
		SocketID: client.ID,
	})

	// The joiner gets the roster and initiates one offer per entry.
	client.EnqueueEvent(domain.Event{
		Type:  domain.EventExistingUsers,
		Users: existing,
	})

	s.deliver(append(targets, client.ID), domain.Event{
		Type:         domain.EventParticipantsUpdate,
		Participants: presence,
		Count:        count,
	})

	s.log.Info("user joined room",
		slog.String("op", op),
		slog.String("room_id", event.RoomID),
		slog.String("user_id", event.UserID),
		slog.String("conn", client.ID),
		slog.Int("participants", count),
	)
}

func (s *RoomService) handleLeave(client *domain.Client, event *domain.Event) {
	if event.RoomID == "" || event.UserID == "" {
		s.log.Warn("leave-room missing roomId or userId", slog.String("conn", client.ID))
		return
	}

	s.removeParticipant(event.RoomID, event.UserID, "")
}

// removeParticipant executes the shared leave/disconnect transition:
// drop the entry, delete the room when it empties, otherwise announce
// user-left plus a fresh presence snapshot to the survivors. When
// onlyIfConn is set the entry is removed only while still bound to that
// connection, so a disconnect of a replaced (re-joined) connection is a
// no-op. A missing room or user is never an error.
func (s *RoomService) removeParticipant(roomID, userID, onlyIfConn string) {
	const op = "service.room.leave"

	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return
	}

	room.Mutex.Lock()
	p, ok := room.Participants[userID]
	if !ok || (onlyIfConn != "" && p.ConnectionID != onlyIfConn) {
		room.Mutex.Unlock()
		s.mu.Unlock()
		return
	}

	delete(room.Participants, userID)
	empty := len(room.Participants) == 0

	presence := make([]domain.ParticipantInfo, 0, len(room.Participants))
	targets := make([]string, 0, len(room.Participants))
	for survivorID, survivor := range room.Participants {
		presence = append(presence, domain.ParticipantInfo{
			UserID:   survivorID,
			UserName: survivor.UserName,
		})
		targets = append(targets, survivor.ConnectionID)
	}
	count := len(room.Participants)
	room.Mutex.Unlock()

	delete(s.index, p.ConnectionID)
	if empty {
		delete(s.rooms, roomID)
	}
	leaver := s.conns[p.ConnectionID]
	s.mu.Unlock()

	if leaver != nil {
		leaver.Unbind()
	}

	if empty {
		s.log.Info("room deleted",
			slog.String("op", op),
			slog.String("room_id", roomID),
			slog.String("user_id", userID),
		)
		return
	}

	s.deliver(targets, domain.Event{
		Type:   domain.EventUserLeft,
		UserID: userID,
	})

	s.deliver(targets, domain.Event{
		Type:         domain.EventParticipantsUpdate,
		Participants: presence,
		Count:        count,
	})

	s.log.Info("user left room",
		slog.String("op", op),
		slog.String("room_id", roomID),
		slog.String("user_id", userID),
		slog.Int("participants", count),
	)
}

func (s *RoomService) handleOffer(client *domain.Client, event *domain.Event) {
	if event.Offer == nil {
		return
	}
	s.relayToTarget(client, event, domain.Event{
		Type:  domain.EventOffer,
		Offer: event.Offer,
	})
}

func (s *RoomService) handleAnswer(client *domain.Client, event *domain.Event) {
	if event.Answer == nil {
		return
	}
	s.relayToTarget(client, event, domain.Event{
		Type:   domain.EventAnswer,
		Answer: event.Answer,
	})
}

func (s *RoomService) handleICECandidate(client *domain.Client, event *domain.Event) {
	if event.Candidate == nil {
		return
	}
	s.relayToTarget(client, event, domain.Event{
		Type:      domain.EventICECandidate,
		Candidate: event.Candidate,
	})
}

// relayToTarget forwards a point-to-point envelope to the connection
// named by the sender, attaching the sender's connection id so the
// recipient can associate the reply. The body is never inspected. A
// missing target is dropped silently; it may have just disconnected.
func (s *RoomService) relayToTarget(client *domain.Client, event *domain.Event, out domain.Event) {
	if event.To == "" {
		s.log.Warn("signal missing target", slog.String("conn", client.ID), slog.String("type", string(event.Type)))
		return
	}

	out.From = event.From
	if out.From == "" {
		out.From = client.ID
	}

	s.mu.RLock()
	target := s.conns[event.To]
	s.mu.RUnlock()

	if target == nil {
		s.log.Debug("relay target not connected",
			slog.String("to", event.To),
			slog.String("type", string(event.Type)),
		)
		return
	}

	target.EnqueueEvent(out)
}

func (s *RoomService) handleScreenShareStarted(client *domain.Client, event *domain.Event) {
	if event.RoomID == "" || event.UserID == "" {
		return
	}
	s.broadcastRoom(event.RoomID, domain.Event{
		Type:   domain.EventUserScreenSharing,
		UserID: event.UserID,
	}, client.ID)
}

func (s *RoomService) handleScreenShareStopped(client *domain.Client, event *domain.Event) {
	if event.RoomID == "" || event.UserID == "" {
		return
	}
	s.broadcastRoom(event.RoomID, domain.Event{
		Type:   domain.EventUserScreenStopped,
		UserID: event.UserID,
	}, client.ID)
}

func (s *RoomService) handleDrawing(client *domain.Client, event *domain.Event) {
	if event.RoomID == "" || len(event.Data) == 0 {
		return
	}
	s.broadcastRoom(event.RoomID, domain.Event{
		Type: domain.EventDrawing,
		Data: event.Data,
	}, client.ID)
}

func (s *RoomService) handleClearCanvas(client *domain.Client, event *domain.Event) {
	if event.RoomID == "" {
		return
	}
	s.broadcastRoom(event.RoomID, domain.Event{
		Type: domain.EventClearCanvas,
	}, client.ID)
}

// Chat goes to the whole room, sender included, so every client renders
// the message from the same broadcast.
func (s *RoomService) handleChatMessage(client *domain.Client, event *domain.Event) {
	if event.RoomID == "" || len(event.Message) == 0 {
		return
	}
	s.broadcastRoom(event.RoomID, domain.Event{
		Type:    domain.EventChatMessage,
		Message: event.Message,
	}, "")
}

// broadcastRoom fans an event out to every connection currently joined
// to the room, minus excludeConn when set. Unknown rooms are a no-op.
func (s *RoomService) broadcastRoom(roomID string, event domain.Event, excludeConn string) {
	s.mu.RLock()
	room := s.rooms[roomID]
	s.mu.RUnlock()

	if room == nil {
		return
	}

	members := room.Snapshot("")
	targets := make([]string, 0, len(members))
	for _, m := range members {
		if m.SocketID == excludeConn {
			continue
		}
		targets = append(targets, m.SocketID)
	}

	s.deliver(targets, event)
}

// deliver resolves connection ids to live clients and enqueues the
// event on each. Delivery is push-only with no retry; a full buffer
// drops the event for that client.
func (s *RoomService) deliver(connectionIDs []string, event domain.Event) {
	s.mu.RLock()
	clients := make([]*domain.Client, 0, len(connectionIDs))
	for _, id := range connectionIDs {
		if client := s.conns[id]; client != nil {
			clients = append(clients, client)
		}
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if !client.EnqueueEvent(event) {
			s.log.Debug("dropping event",
				slog.String("conn", client.ID),
				slog.String("type", string(event.Type)),
			)
		}
	}
}

// ExistingParticipants snapshots the members of a room other than
// excludingUserID. A never-created or departed room yields an empty
// result, not an error.
func (s *RoomService) ExistingParticipants(roomID, excludingUserID string) []domain.ParticipantInfo {
	s.mu.RLock()
	room := s.rooms[roomID]
	s.mu.RUnlock()

	if room == nil {
		return nil
	}

	return room.Snapshot(excludingUserID)
}

// FindByConnection resolves the room/user a connection is joined to.
func (s *RoomService) FindByConnection(connectionID string) (roomID, userID string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	binding, ok := s.index[connectionID]
	return binding.roomID, binding.userID, ok
}

func (s *RoomService) HasRoom(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rooms[roomID]
	return ok
}

func (s *RoomService) ParticipantCount(roomID string) int {
	s.mu.RLock()
	room := s.rooms[roomID]
	s.mu.RUnlock()

	if room == nil {
		return 0
	}
	return room.Size()
}
