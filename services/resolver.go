// Package services holds the console's business operations: reference
// resolution, schedule registration, the worker job poller, licenses and
// the center/server/backup catalog.
package services

import (
	"context"
	"strconv"
	"strings"

	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/models"
)

// Resolver turns API references into rows. A center reference is an id or a
// name, a user reference an id or an email, a server reference an id or a
// name within a center. Misses are ErrNotFound.
type Resolver struct {
	centers *data.CenterStore
	users   *data.UserStore
	servers *data.ServerStore
}

func NewResolver(stores *data.Stores) *Resolver {
	return &Resolver{centers: stores.Centers, users: stores.Users, servers: stores.Servers}
}

func numericRef(ref string) (int64, bool) {
	id, err := strconv.ParseInt(ref, 10, 64)
	return id, err == nil && id > 0
}

func (r *Resolver) Center(ctx context.Context, ref string) (*models.Center, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewValidationError("center reference is required", "center", "")
	}
	if id, ok := numericRef(ref); ok {
		return r.centers.GetByID(ctx, id)
	}
	return r.centers.GetByName(ctx, ref)
}

func (r *Resolver) User(ctx context.Context, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewValidationError("user reference is required", "user", "")
	}
	if id, ok := numericRef(ref); ok {
		return r.users.GetByID(ctx, id)
	}
	return r.users.GetByEmail(ctx, ref)
}

// Server resolves ref; a name needs centerID, an id does not.
func (r *Resolver) Server(ctx context.Context, centerID int64, ref string) (*models.Server, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewValidationError("server reference is required", "server", "")
	}
	if id, ok := numericRef(ref); ok {
		srv, err := r.servers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if centerID != 0 && srv.CenterId != centerID {
			return nil, errors.NewNotFoundError("server %d in center %d", id, centerID)
		}
		return srv, nil
	}
	if centerID == 0 {
		return nil, errors.NewInvalidRequestError("server name %q needs a center", ref)
	}
	return r.servers.GetByName(ctx, centerID, ref)
}

// registrationParties resolves the center and user a request names. Misses
// are reported as invalid requests.
func (r *Resolver) registrationParties(ctx context.Context, centerRef, userRef string) (*models.Center, *models.User, error) {
	center, err := r.Center(ctx, centerRef)
	if err != nil {
		return nil, nil, unresolved(err, "center", centerRef)
	}
	user, err := r.User(ctx, userRef)
	if err != nil {
		return nil, nil, unresolved(err, "user", userRef)
	}
	return center, user, nil
}
