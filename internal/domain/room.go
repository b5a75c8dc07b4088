package domain

import (
	"sync"
	"time"
)

// Participant is a joined user within a room. It references the live
// connection by identifier only; the connection's lifecycle is managed
// elsewhere and may end without the room being told synchronously.
type Participant struct {
	ConnectionID string
	UserName     string
}

// Room groups the participants of one call session, keyed by the
// client-supplied user id. Rooms are created lazily on first join and
// must be deleted the moment the last participant leaves.
type Room struct {
	Mutex        sync.RWMutex
	ID           string
	Participants map[string]*Participant
	CreatedAt    time.Time
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		Participants: make(map[string]*Participant),
		CreatedAt:    time.Now().UTC(),
	}
}

// Snapshot returns the current members, excluding excludeUserID when
// non-empty. Callers own the returned slice.
func (r *Room) Snapshot(excludeUserID string) []ParticipantInfo {
	r.Mutex.RLock()
	defer r.Mutex.RUnlock()

	members := make([]ParticipantInfo, 0, len(r.Participants))
	for userID, p := range r.Participants {
		if excludeUserID != "" && userID == excludeUserID {
			continue
		}
		members = append(members, ParticipantInfo{
			UserID:   userID,
			UserName: p.UserName,
			SocketID: p.ConnectionID,
		})
	}
	return members
}

func (r *Room) Size() int {
	r.Mutex.RLock()
	defer r.Mutex.RUnlock()
	return len(r.Participants)
}
