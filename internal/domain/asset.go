package domain

// AssetCreateParams describes a new fungible token or NFT.
type AssetCreateParams struct {
	AssetName     string `json:"assetName"`
	UnitName      string `json:"unitName"`
	Total         uint64 `json:"total"`
	Decimals      uint32 `json:"decimals"`
	DefaultFrozen bool   `json:"defaultFrozen"`
	URL           string `json:"url,omitempty"`
	// MetadataHash is empty or exactly 32 bytes.
	MetadataHash []byte `json:"metadataHash,omitempty"`
}
