package entity

// AlchemyNFTsResponse mirrors the Alchemy getNFTsForOwner response for
// the fields the engine consumes.
type AlchemyNFTsResponse struct {
	OwnedNFTs  []AlchemyOwnedNFT `json:"ownedNfts"`
	TotalCount int               `json:"totalCount"`
	PageKey    string            `json:"pageKey,omitempty"`
}

// AlchemyOwnedNFT is one NFT entry.
type AlchemyOwnedNFT struct {
	Contract AlchemyNFTContract `json:"contract"`
	TokenID  string             `json:"tokenId"`
	Name     string             `json:"name"`
	Image    AlchemyNFTImage    `json:"image"`
}

// AlchemyNFTContract holds collection-level metadata, including the
// floor price when Alchemy has one.
type AlchemyNFTContract struct {
	Address         string                 `json:"address"`
	Name            string                 `json:"name"`
	OpenSeaMetadata AlchemyOpenSeaMetadata `json:"openSeaMetadata"`
}

// AlchemyOpenSeaMetadata carries the OpenSea floor price, treated as
// USD and summed directly into the NFT subtotal.
type AlchemyOpenSeaMetadata struct {
	CollectionName string  `json:"collectionName"`
	FloorPrice     float64 `json:"floorPrice"`
}

// AlchemyNFTImage holds the media URLs for an NFT.
type AlchemyNFTImage struct {
	CachedURL    string `json:"cachedUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	OriginalURL  string `json:"originalUrl"`
}
