package ledger

import "encoding/json"

// AccountRoot is the subset of the AccountRoot ledger entry the service reads.
type AccountRoot struct {
	Account    string `json:"Account"`
	Balance    string `json:"Balance"`
	Sequence   uint32 `json:"Sequence"`
	OwnerCount uint32 `json:"OwnerCount"`
	Flags      uint32 `json:"Flags"`
}

// AccountInfoResult is the account_info response.
type AccountInfoResult struct {
	AccountData        AccountRoot `json:"account_data"`
	LedgerIndex        uint32      `json:"ledger_index,omitempty"`
	LedgerCurrentIndex uint32      `json:"ledger_current_index,omitempty"`
	Validated          bool        `json:"validated"`
}

type FeeDrops struct {
	BaseFee       string `json:"base_fee"`
	MedianFee     string `json:"median_fee"`
	MinimumFee    string `json:"minimum_fee"`
	OpenLedgerFee string `json:"open_ledger_fee"`
}

// FeeResult is the fee response. Drop values are decimal strings.
type FeeResult struct {
	CurrentLedgerSize  string   `json:"current_ledger_size"`
	CurrentQueueSize   string   `json:"current_queue_size"`
	Drops              FeeDrops `json:"drops"`
	LedgerCurrentIndex uint32   `json:"ledger_current_index"`
}

// SubmitResult is the preliminary submit response. EngineResult is not final.
type SubmitResult struct {
	EngineResult         string         `json:"engine_result"`
	EngineResultCode     int            `json:"engine_result_code"`
	EngineResultMessage  string         `json:"engine_result_message"`
	TxBlob               string         `json:"tx_blob"`
	TxJSON               map[string]any `json:"tx_json"`
	Accepted             bool           `json:"accepted"`
	Applied              bool           `json:"applied"`
	Broadcast            bool           `json:"broadcast"`
	Kept                 bool           `json:"kept"`
	Queued               bool           `json:"queued"`
	ValidatedLedgerIndex uint32         `json:"validated_ledger_index"`
}

// NodeChange is one entry of a transaction's AffectedNodes. Field maps are
// kept raw because their shape depends on LedgerEntryType.
type NodeChange struct {
	LedgerEntryType string          `json:"LedgerEntryType"`
	LedgerIndex     string          `json:"LedgerIndex"`
	NewFields       json.RawMessage `json:"NewFields,omitempty"`
	FinalFields     json.RawMessage `json:"FinalFields,omitempty"`
	PreviousFields  json.RawMessage `json:"PreviousFields,omitempty"`
}

type AffectedNode struct {
	CreatedNode  *NodeChange `json:"CreatedNode,omitempty"`
	ModifiedNode *NodeChange `json:"ModifiedNode,omitempty"`
	DeletedNode  *NodeChange `json:"DeletedNode,omitempty"`
}

// TxMeta is the metadata attached to a validated transaction.
type TxMeta struct {
	TransactionResult string          `json:"TransactionResult"`
	TransactionIndex  uint32          `json:"TransactionIndex"`
	AffectedNodes     []AffectedNode  `json:"AffectedNodes"`
	DeliveredAmount   json.RawMessage `json:"delivered_amount,omitempty"`
}

// TxResponse is a transaction as returned by the tx command (API v1, JSON).
// Raw keeps the full record for normalization.
type TxResponse struct {
	Hash            string  `json:"hash"`
	TransactionType string  `json:"TransactionType"`
	Account         string  `json:"Account"`
	Fee             string  `json:"Fee"`
	Sequence        uint32  `json:"Sequence"`
	LedgerIndex     uint32  `json:"ledger_index"`
	Date            uint32  `json:"date"`
	Validated       bool    `json:"validated"`
	Meta            *TxMeta `json:"meta,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (t *TxResponse) UnmarshalJSON(data []byte) error {
	type plain TxResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TxResponse(p)
	t.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// NFToken is an entry of account_nfts.
type NFToken struct {
	Flags        uint32 `json:"Flags"`
	Issuer       string `json:"Issuer"`
	NFTokenID    string `json:"NFTokenID"`
	NFTokenTaxon uint32 `json:"NFTokenTaxon"`
	URI          string `json:"URI,omitempty"`
	Serial       uint32 `json:"nft_serial"`
	TransferFee  uint16 `json:"TransferFee,omitempty"`
}

// AccountNFTsResult lists the tokens an account holds.
type AccountNFTsResult struct {
	Account            string          `json:"account"`
	NFTs               []NFToken       `json:"account_nfts"`
	Marker             json.RawMessage `json:"marker,omitempty"`
	LedgerIndex        uint32          `json:"ledger_index,omitempty"`
	LedgerCurrentIndex uint32          `json:"ledger_current_index,omitempty"`
	Validated          bool            `json:"validated"`
}

// NFTInfoResult describes one token by ID, whoever holds it.
type NFTInfoResult struct {
	NFTokenID   string `json:"nft_id"`
	LedgerIndex uint32 `json:"ledger_index"`
	Owner       string `json:"owner"`
	IsBurned    bool   `json:"is_burned"`
	Flags       uint32 `json:"flags"`
	TransferFee uint16 `json:"transfer_fee"`
	Issuer      string `json:"issuer"`
	Taxon       uint32 `json:"nft_taxon"`
	Serial      uint32 `json:"nft_serial"`
	URI         string `json:"uri"`
}

// AccountTxRequest pages through an account's history. Marker is the opaque
// value from a previous page.
type AccountTxRequest struct {
	Account string
	Limit   int
	Marker  json.RawMessage
	Forward bool
}

// AccountTxEntry pairs a transaction with its metadata (API v1 layout).
type AccountTxEntry struct {
	Meta      json.RawMessage `json:"meta"`
	Tx        json.RawMessage `json:"tx"`
	Validated bool            `json:"validated"`
}

// AccountTxResult is one page of account_tx. A non-empty Marker means more pages.
type AccountTxResult struct {
	Account        string           `json:"account"`
	LedgerIndexMin int64            `json:"ledger_index_min"`
	LedgerIndexMax int64            `json:"ledger_index_max"`
	Limit          int              `json:"limit"`
	Marker         json.RawMessage  `json:"marker,omitempty"`
	Transactions   []AccountTxEntry `json:"transactions"`
	Validated      bool             `json:"validated"`
}

type ValidatedLedger struct {
	Seq            uint32  `json:"seq"`
	Age            uint32  `json:"age"`
	BaseFeeXRP     float64 `json:"base_fee_xrp"`
	ReserveBaseXRP float64 `json:"reserve_base_xrp"`
	ReserveIncXRP  float64 `json:"reserve_inc_xrp"`
	Hash           string  `json:"hash"`
}

type ServerInfo struct {
	BuildVersion    string           `json:"build_version"`
	CompleteLedgers string           `json:"complete_ledgers"`
	ServerState     string           `json:"server_state"`
	NetworkID       uint32           `json:"network_id,omitempty"`
	PeerCount       int              `json:"peers"`
	Uptime          int64            `json:"uptime"`
	ValidatedLedger *ValidatedLedger `json:"validated_ledger,omitempty"`
}

// ServerInfoResult is the server_info response.
type ServerInfoResult struct {
	Info ServerInfo `json:"info"`
}
