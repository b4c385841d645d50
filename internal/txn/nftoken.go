package txn

import (
	"encoding/json"

	"github.com/LeJamon/campuspay/internal/ledger"
)

const nftokenPage = "NFTokenPage"

type pageFields struct {
	NFTokens []struct {
		NFToken struct {
			NFTokenID string `json:"NFTokenID"`
		} `json:"NFToken"`
	} `json:"NFTokens"`
}

func pageTokens(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var f pageFields
	if err := json.Unmarshal(raw, &f); err != nil || f.NFTokens == nil {
		return nil, false
	}
	ids := make([]string, 0, len(f.NFTokens))
	for _, t := range f.NFTokens {
		if t.NFToken.NFTokenID != "" {
			ids = append(ids, t.NFToken.NFTokenID)
		}
	}
	return ids, true
}

// MintedTokenID finds the token created by an NFTokenMint from its metadata.
// The first token of the first created NFTokenPage wins. A mint into an
// existing page creates none, so the fallback is the first token present in
// a page after the transaction but not before it.
func MintedTokenID(meta *ledger.TxMeta) (string, bool) {
	if meta == nil {
		return "", false
	}
	for _, n := range meta.AffectedNodes {
		if n.CreatedNode == nil || n.CreatedNode.LedgerEntryType != nftokenPage {
			continue
		}
		if ids, _ := pageTokens(n.CreatedNode.NewFields); len(ids) > 0 {
			return ids[0], true
		}
	}
	return modifiedPageToken(meta.AffectedNodes)
}

func modifiedPageToken(nodes []ledger.AffectedNode) (string, bool) {
	before := make(map[string]bool)
	var after []string
	for _, n := range nodes {
		switch {
		case n.ModifiedNode != nil && n.ModifiedNode.LedgerEntryType == nftokenPage:
			final, _ := pageTokens(n.ModifiedNode.FinalFields)
			prev, changed := pageTokens(n.ModifiedNode.PreviousFields)
			if !changed {
				// NFTokens untouched on this page.
				prev = final
			}
			for _, id := range prev {
				before[id] = true
			}
			after = append(after, final...)
		case n.DeletedNode != nil && n.DeletedNode.LedgerEntryType == nftokenPage:
			ids, _ := pageTokens(n.DeletedNode.FinalFields)
			for _, id := range ids {
				before[id] = true
			}
		}
	}

	for _, id := range after {
		if !before[id] {
			return id, true
		}
	}
	return "", false
}
