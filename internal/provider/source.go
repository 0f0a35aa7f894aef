package provider

import (
	"context"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

// TokenSource is the contract every upstream market-data adapter implements.
// All methods return canonical tokens already filtered to the target chain
// and deduplicated by address within the provider's own result set.
type TokenSource interface {
	Name() domain.Source
	// Search runs the provider's text search.
	Search(ctx context.Context, query string) ([]domain.Token, error)
	// GetByAddress returns all pairs the provider knows for one token address.
	GetByAddress(ctx context.Context, address string) ([]domain.Token, error)
	// GetTrending returns the provider's best-effort hot list.
	GetTrending(ctx context.Context) ([]domain.Token, error)
	// GetBatch returns tokens for multiple addresses, chunking internally when
	// the provider caps addresses per call.
	GetBatch(ctx context.Context, addresses []string) ([]domain.Token, error)
}
