package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
)

// userGate serializes writes to a user's problem document. Holding the gate
// is a KV entry with a TTL so a crashed holder cannot wedge the user.
type userGate struct {
	store kv.Store
	ttl   time.Duration
}

func newUserGate(store kv.Store, ttl time.Duration) *userGate {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &userGate{store: store, ttl: ttl}
}

func gateKey(userID uuid.UUID) string { return "gate:problems:" + userID.String() }

// acquire returns a release func, or ErrImportInProgress when another
// writer holds the gate.
func (g *userGate) acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	token := []byte(uuid.NewString())
	ok, err := g.store.SetNX(ctx, gateKey(userID), token, g.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire gate: %w", err)
	}
	if !ok {
		return nil, importerr.ErrImportInProgress
	}
	return func() {
		// release even if the request context is already gone
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_, _ = g.store.DeleteIfEquals(relCtx, gateKey(userID), token)
	}, nil
}
