package minting

import "context"

// Minter is the external token service the sales engine delegates to. It
// creates the event's NFT collection, mints one token per sold ticket,
// associates the collection with the buyer's account and transfers the token
// to them. Any failure aborts the purchase as a whole.
type Minter interface {
	CreateCollection(ctx context.Context, req *CreateCollectionRequest) (string, error)
	Mint(ctx context.Context, collectionID string, metadata string) (int64, error)
	Associate(ctx context.Context, account string, collectionID string) error
	Transfer(ctx context.Context, collectionID string, serial int64, from, to string) error
}

// CreateCollectionRequest carries the one-time collection bootstrap
// parameters.
type CreateCollectionRequest struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Memo          string `json:"memo"`
	InitialSupply int64  `json:"initial_supply"`
	MaxSupply     int64  `json:"max_supply"`
}
