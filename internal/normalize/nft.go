package normalize

import "github.com/LeJamon/campuspay/internal/ledger"

// NFT is the normalized view of a token held by an account or looked up by ID.
type NFT struct {
	ID          string `json:"nftId"`
	Issuer      string `json:"issuer"`
	Owner       string `json:"owner,omitempty"`
	URI         string `json:"uri"`
	Taxon       uint32 `json:"taxon"`
	Flags       uint32 `json:"flags"`
	Serial      uint32 `json:"serial"`
	TransferFee uint16 `json:"transferFee"`
	Burned      bool   `json:"isBurned,omitempty"`
	Metadata    any    `json:"metadata"`
}

// NFTFromAccount normalizes an account_nfts entry held by owner.
func NFTFromAccount(owner string, n ledger.NFToken) NFT {
	return NFT{
		ID:          n.NFTokenID,
		Issuer:      n.Issuer,
		Owner:       owner,
		URI:         n.URI,
		Taxon:       n.NFTokenTaxon,
		Flags:       n.Flags,
		Serial:      n.Serial,
		TransferFee: n.TransferFee,
		Metadata:    metadataOf(n.URI),
	}
}

func NFTFromInfo(n *ledger.NFTInfoResult) NFT {
	return NFT{
		ID:          n.NFTokenID,
		Issuer:      n.Issuer,
		Owner:       n.Owner,
		URI:         n.URI,
		Taxon:       n.Taxon,
		Flags:       n.Flags,
		Serial:      n.Serial,
		TransferFee: n.TransferFee,
		Burned:      n.IsBurned,
		Metadata:    metadataOf(n.URI),
	}
}

func metadataOf(uri string) any {
	if uri == "" {
		return map[string]any{}
	}
	return DecodePayload(uri).Metadata()
}
