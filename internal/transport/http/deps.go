package http

import (
	"github.com/funfans/funfans-api/internal/application/notification"
	"github.com/funfans/funfans-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/funfans/funfans-api/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	VerificationRepo *dynamo.VerificationRepo
	SupportRepo      *dynamo.SupportMessageRepo
	ProfileRepo      *dynamo.ProfileRepo
	Mailer           notification.Mailer
	JWTProvider      *jwtinfra.Provider
}
