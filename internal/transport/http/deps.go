package http

import (
	"github.com/playroom-api/internal/application/event"
	"github.com/playroom-api/internal/application/notification"
	"github.com/playroom-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/playroom-api/internal/infrastructure/jwt"
)

// Deps holds all dependencies the router wires into handlers.
type Deps struct {
	NotificationSvc  notification.Service
	Bus              *event.Bus
	FollowRepo       *dynamo.FollowRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	PlaylistRepo     *dynamo.PlaylistRepo
	JWTVerifier      *jwtinfra.Verifier
}
