package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/models"
	"github.com/fairhub-io/fairhub-api/internal/repository"
)

// Actor kinds attributed by the resolver.
const (
	ActorKindSuperAdmin = "SUPER_ADMIN"
	ActorKindSubAdmin   = "SUB_ADMIN"
	ActorKindUser       = "USER"
)

var (
	// ErrUnauthenticated indicates a request without verified session claims.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrActorNotFound indicates a claimed subject that matches no identity
	// store.
	ErrActorNotFound = errors.New("actor not found")
)

// SessionClaims carries the verified token subject handed over by the
// identity middleware. The resolver branches on claims only; signature
// verification happens upstream.
type SessionClaims struct {
	SubjectID uint
	Role      string
}

// Valid reports whether any claims are present at all.
func (c SessionClaims) Valid() bool {
	return c.SubjectID != 0
}

// Actor is the tagged union attributed to a request: exactly one kind, with
// Role populated only for USER actors.
type Actor struct {
	Kind string
	ID   uint
	Name string
	Role string
}

// IsAdmin reports whether the actor holds an admin kind.
func (a Actor) IsAdmin() bool {
	return a.Kind == ActorKindSuperAdmin || a.Kind == ActorKindSubAdmin
}

// AdminType returns the audit admin-type tag for admin actors.
func (a Actor) AdminType() string {
	switch a.Kind {
	case ActorKindSuperAdmin:
		return models.AdminTypeSuper
	case ActorKindSubAdmin:
		return models.AdminTypeSub
	default:
		return ""
	}
}

// ActorResolver attributes a single actor kind per request by probing the
// identity stores in fixed priority order: SuperAdmin, then SubAdmin, then
// User. First match wins.
type ActorResolver interface {
	Resolve(ctx context.Context, claims SessionClaims) (Actor, error)
}

type actorResolver struct {
	identities repository.IdentityRepository
	logger     zerolog.Logger
}

// NewActorResolver constructs the actor resolver.
func NewActorResolver(identities repository.IdentityRepository, logger zerolog.Logger) ActorResolver {
	return &actorResolver{
		identities: identities,
		logger:     logger.With().Str("component", "actor_resolver").Logger(),
	}
}

func (r *actorResolver) Resolve(ctx context.Context, claims SessionClaims) (Actor, error) {
	if !claims.Valid() {
		return Actor{}, ErrUnauthenticated
	}

	if admin, err := r.identities.FindSuperAdmin(ctx, claims.SubjectID); err == nil {
		return Actor{Kind: ActorKindSuperAdmin, ID: admin.ID, Name: admin.Name}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Actor{}, err
	}

	if admin, err := r.identities.FindSubAdmin(ctx, claims.SubjectID); err == nil {
		return Actor{Kind: ActorKindSubAdmin, ID: admin.ID, Name: admin.Name}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Actor{}, err
	}

	// Absence of admin identity is not an error: the subject falls through to
	// an ordinary user. The user record is re-fetched here so a stale token
	// subject surfaces as not-found instead of a downstream constraint
	// violation.
	user, err := r.identities.FindUser(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn().Uint("subject_id", claims.SubjectID).Msg("token subject matches no identity store")
			return Actor{}, ErrActorNotFound
		}
		return Actor{}, err
	}

	return Actor{Kind: ActorKindUser, ID: user.ID, Name: user.Name, Role: user.Role}, nil
}
