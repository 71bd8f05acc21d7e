package service

import (
	"github.com/caterbazar/caterbazar-console/internal/inflight"
	"github.com/caterbazar/caterbazar-console/internal/storage"
)

// ReviewDeps are shared by every console's review view.
type ReviewDeps struct {
	Guard  inflight.Guard         // shared so a registration is guarded across consoles
	Signer storage.DocumentSigner // optional
}
