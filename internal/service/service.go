package service

import (
	"github.com/Molza01/Communicaton-Web-App/internal/domain"
)

// SignalingInteractor is the surface the transport layer drives. Every
// inbound event lands in Dispatch; connection lifecycle is reported via
// Register/Unregister.
type SignalingInteractor interface {
	RegisterClient(client *domain.Client)
	UnregisterClient(connectionID string)
	Dispatch(client *domain.Client, event *domain.Event)
}

type TokenInteractor interface {
	Generate(userID, email string) (string, error)
	Verify(token string) (*TokenClaims, error)
}
