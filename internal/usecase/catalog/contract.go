package catalog

import (
	"context"

	domcat "github.com/hansardlab/policyrag/internal/domain/catalog"
)

// Repository defines the storage contract for catalog reads.
type Repository interface {
	Members(ctx context.Context, session string) ([]domcat.Member, error)
}
