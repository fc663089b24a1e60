package importer

import (
	"context"

	"github.com/vmunix/tanko/internal/assemble"
)

//go:generate mockgen -source=confirm.go -destination=mocks/mock_confirmer.go -package=mocks

// Confirmer answers the questions an import can raise. Answers resolve
// asynchronously; a false return cancels only the items the question
// covered, never the rest of the batch.
type Confirmer interface {
	// ConfirmMismatch asks whether a volume whose files do not line up
	// with its declared pages should be imported anyway.
	ConfirmMismatch(ctx context.Context, volume string, result assemble.MatchResult) (bool, error)

	// ConfirmImageOnly asks whether sources with no metadata anywhere
	// should be imported as image-only volumes. Asked once per batch,
	// covering every image-only source in it.
	ConfirmImageOnly(ctx context.Context, series []string, volumes int) (bool, error)
}
