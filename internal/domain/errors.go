package domain

import "errors"

var (
	// ErrAccountNotFound means the address has never been funded on-chain.
	// It is a valid empty state rather than a failure.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAssetNotFound means an asset id is unknown to the indexer.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrRateLimited marks a transient rate-limit rejection (HTTP 429) from a node or indexer.
	ErrRateLimited = errors.New("rate limited")
)
