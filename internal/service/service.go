// Package service implements the campus payment operations on top of the
// wallet, transaction and ledger layers. Every exported operation returns a
// DTO or an *apperr.Error.
package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/directory"
	"github.com/LeJamon/campuspay/internal/ledger"
	"github.com/LeJamon/campuspay/internal/normalize"
	"github.com/LeJamon/campuspay/internal/storage/receipts"
	"github.com/LeJamon/campuspay/internal/txn"
	"github.com/LeJamon/campuspay/internal/wallet"
)

// Ledger is the read side of the ledger used directly by the service.
type Ledger interface {
	Tx(ctx context.Context, hash string) (*ledger.TxResponse, error)
	AccountNFTs(ctx context.Context, account string) (*ledger.AccountNFTsResult, error)
	NFTInfo(ctx context.Context, nftID string) (*ledger.NFTInfoResult, error)
	AccountTx(ctx context.Context, req ledger.AccountTxRequest) (*ledger.AccountTxResult, error)
}

// Wallets creates identities and supplies the NFT issuer.
type Wallets interface {
	CreateFunded(ctx context.Context) (*wallet.Identity, string, error)
	Balance(ctx context.Context, address string) (string, error)
	Issuer(ctx context.Context) (*wallet.Identity, error)
}

// Submitter submits signed transactions and waits for their outcome.
type Submitter interface {
	Pay(ctx context.Context, intent txn.PaymentIntent) (*txn.Result, error)
	Mint(ctx context.Context, intent txn.MintIntent) (*txn.Result, error)
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	receiptWriteTimeout = 5 * time.Second
)

// Options configures a Service.
type Options struct {
	StudentTaxon uint32
	CacheSize    int
	// Now is the clock used for timestamps; defaults to time.Now.
	Now func() time.Time
}

// Service implements the campus payment operations behind the HTTP API and CLI.
type Service struct {
	ledger    Ledger
	wallets   Wallets
	submitter Submitter
	directory *directory.Directory
	receipts  receipts.Store
	cache     *TxCache
	opts      Options
	logger    *zap.Logger
}

// New builds a Service with a validated-transaction cache of opts.CacheSize.
func New(l Ledger, w Wallets, sub Submitter, dir *directory.Directory, store receipts.Store, opts Options, logger *zap.Logger) (*Service, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cache, err := NewTxCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("transaction cache: %w", err)
	}
	return &Service{
		ledger:    l,
		wallets:   w,
		submitter: sub,
		directory: dir,
		receipts:  store,
		cache:     cache,
		opts:      opts,
		logger:    logger.Named("service"),
	}, nil
}

// CreateWallet creates and funds a new test network wallet. The seed is
// returned to the caller and nowhere else.
func (s *Service) CreateWallet(ctx context.Context) (*WalletInfo, error) {
	id, balance, err := s.wallets.CreateFunded(ctx)
	if err != nil {
		return nil, err
	}
	defer id.Close()
	return &WalletInfo{
		Address:   id.Address(),
		PublicKey: id.PublicKey(),
		Seed:      id.Seed(),
		Balance:   balance,
	}, nil
}

func (s *Service) RecoverWallet(seed string) (*WalletInfo, error) {
	id, err := wallet.RecoverFromSeed(seed)
	if err != nil {
		return nil, err
	}
	defer id.Close()
	return &WalletInfo{Address: id.Address(), PublicKey: id.PublicKey()}, nil
}

func (s *Service) Balance(ctx context.Context, address string) (string, error) {
	return s.wallets.Balance(ctx, address)
}

// SendPayment sends XRP from the seed's account.
func (s *Service) SendPayment(ctx context.Context, req PaymentRequest) (*PaymentReceipt, error) {
	id, err := wallet.RecoverFromSeed(req.SenderSeed)
	if err != nil {
		return nil, err
	}
	defer id.Close()
	return s.pay(ctx, receipts.KindPayment, txn.PaymentIntent{
		Signer:      id,
		Destination: req.Destination,
		Amount:      req.Amount,
		Memo:        req.Memo,
	})
}

// ProcessTuitionPayment pays a registered university and records the
// payment details in a JSON memo. Nothing is submitted for an unknown
// university.
func (s *Service) ProcessTuitionPayment(ctx context.Context, req TuitionRequest) (*PaymentReceipt, error) {
	const op = "service.tuition"

	university := strings.TrimSpace(req.UniversityName)
	switch {
	case university == "":
		return nil, apperr.Validation(op, "universityName is required")
	case strings.TrimSpace(req.PaymentInfo.StudentID) == "":
		return nil, apperr.Validation(op, "paymentInfo.studentId is required")
	case strings.TrimSpace(req.PaymentInfo.Semester) == "":
		return nil, apperr.Validation(op, "paymentInfo.semester is required")
	}
	address, ok := s.directory.Lookup(university)
	if !ok {
		return nil, apperr.NotFound(op, fmt.Sprintf("university %q is not registered", university))
	}

	id, err := wallet.RecoverFromSeed(req.StudentSeed)
	if err != nil {
		return nil, err
	}
	defer id.Close()

	info := &TuitionInfo{
		University:  university,
		StudentID:   req.PaymentInfo.StudentID,
		Semester:    req.PaymentInfo.Semester,
		Description: fmt.Sprintf("%s %s tuition payment", university, req.PaymentInfo.Semester),
	}
	memo, err := json.Marshal(tuitionMemo{
		Type:        tuitionMemoType,
		University:  info.University,
		StudentID:   info.StudentID,
		Semester:    info.Semester,
		Date:        normalize.FormatISO(s.opts.Now()),
		Description: info.Description,
	})
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	receipt, err := s.pay(ctx, receipts.KindTuition, txn.PaymentIntent{
		Signer:      id,
		Destination: address,
		Amount:      req.Amount,
		Memo:        string(memo),
	})
	if err != nil {
		return nil, err
	}
	receipt.PaymentInfo = info
	return receipt, nil
}

func (s *Service) pay(ctx context.Context, kind receipts.Kind, intent txn.PaymentIntent) (*PaymentReceipt, error) {
	res, err := s.submitter.Pay(ctx, intent)
	if res == nil {
		return nil, err
	}
	s.cache.Put(res.Tx)

	var out *PaymentReceipt
	if err == nil {
		out = &PaymentReceipt{
			Hash:        res.Hash,
			Sender:      res.Account,
			Receiver:    intent.Destination,
			Amount:      res.Amount.DecimalXRP(),
			Fee:         res.Fee.DecimalXRP(),
			LedgerIndex: res.LedgerIndex,
			Timestamp:   normalize.FormatISO(s.opts.Now()),
		}
	}
	s.record(ctx, kind, res, intent.Destination, out)
	return out, err
}

// MintStudentID mints a transferable student ID token to the receiver,
// signed by the NFT issuer.
func (s *Service) MintStudentID(ctx context.Context, req MintRequest) (*MintReceipt, error) {
	const op = "service.mint_student_id"

	info := req.StudentInfo
	switch {
	case strings.TrimSpace(info.Name) == "":
		return nil, apperr.Validation(op, "studentInfo.name is required")
	case strings.TrimSpace(info.School) == "":
		return nil, apperr.Validation(op, "studentInfo.school is required")
	case strings.TrimSpace(info.StudentID) == "":
		return nil, apperr.Validation(op, "studentInfo.studentId is required")
	}
	if err := txn.CheckAddress(op, "receiverAddress", req.ReceiverAddress); err != nil {
		return nil, err
	}

	metadata := normalize.StudentMetadata{
		Name:        info.Name + " Student ID",
		Description: info.School + " - " + info.StudentID,
		StudentInfo: normalize.StudentInfo{
			Name:       info.Name,
			School:     info.School,
			StudentID:  info.StudentID,
			Department: info.Department,
			IssueDate:  normalize.FormatISO(s.opts.Now()),
		},
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if len(raw) > txn.MaxURILength {
		return nil, apperr.Validationf(op, "student info too long: metadata is %d bytes, limit %d", len(raw), txn.MaxURILength)
	}

	issuer, err := s.wallets.Issuer(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.submitter.Mint(ctx, txn.MintIntent{
		Signer:    issuer,
		Recipient: req.ReceiverAddress,
		Metadata:  metadata,
		Taxon:     s.opts.StudentTaxon,
	})
	if res == nil {
		return nil, err
	}
	s.cache.Put(res.Tx)

	var out *MintReceipt
	if err == nil {
		out = &MintReceipt{
			NFTID:           res.NFTokenID,
			Issuer:          issuer.Address(),
			Owner:           req.ReceiverAddress,
			URI:             txn.EncodeHex(raw),
			StudentInfo:     info,
			TransactionHash: res.Hash,
		}
	}
	s.record(ctx, receipts.KindMint, res, req.ReceiverAddress, out)
	return out, err
}

// record stores a receipt for any submission that produced a hash. It runs
// even when the caller's context is done so Unknown outcomes can be traced.
func (s *Service) record(ctx context.Context, kind receipts.Kind, res *txn.Result, counterparty string, dto any) {
	if s.receipts == nil || res == nil || res.Hash == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), receiptWriteTimeout)
	defer cancel()

	r := &receipts.Receipt{
		Hash:         res.Hash,
		Kind:         kind,
		Account:      res.Account,
		Counterparty: counterparty,
		AmountDrops:  res.Amount.Drops(),
		Outcome:      res.Outcome.String(),
		Code:         res.Code,
		LedgerIndex:  res.LedgerIndex,
		CreatedAt:    s.opts.Now().UTC(),
	}
	if dto != nil {
		if raw, err := json.Marshal(dto); err == nil {
			r.Raw = raw
		}
	}
	if err := s.receipts.Put(ctx, r); err != nil {
		s.logger.Warn("receipt not stored", zap.String("hash", res.Hash), zap.Error(err))
	}
}

// GetTransaction returns the normalized transaction, including failed ones.
func (s *Service) GetTransaction(ctx context.Context, hash string) (*normalize.Transaction, error) {
	const op = "service.get_transaction"
	tx, err := s.fetchTx(ctx, op, hash)
	if err != nil {
		return nil, err
	}
	out, err := normalize.FromTx(tx)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	return out, nil
}

func (s *Service) fetchTx(ctx context.Context, op, hash string) (*ledger.TxResponse, error) {
	hash = strings.TrimSpace(hash)
	if !isHash256(hash) {
		return nil, apperr.Validationf(op, "invalid transaction hash %q", hash)
	}
	if tx, ok := s.cache.Get(hash); ok {
		return tx, nil
	}
	tx, err := s.ledger.Tx(ctx, hash)
	if err != nil {
		return nil, ledger.AppError(op, err)
	}
	s.cache.Put(tx)
	return tx, nil
}

// CheckPaymentStatus summarizes a payment and classifies it as tuition or
// general from its first memo.
func (s *Service) CheckPaymentStatus(ctx context.Context, hash string) (*PaymentStatus, error) {
	const op = "service.payment_status"

	tx, err := s.GetTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}
	p, ok := tx.Payment()
	if !ok {
		return nil, apperr.Validationf(op, "transaction %s is a %s, not a payment", tx.Hash, tx.Type)
	}

	st := &PaymentStatus{
		Hash:            tx.Hash,
		Sender:          tx.Account,
		Receiver:        p.Destination,
		Amount:          p.Amount,
		DeliveredAmount: p.DeliveredAmount,
		Fee:             tx.Fee,
		Date:            tx.Date,
		LedgerIndex:     tx.LedgerIndex,
		Code:            tx.Status,
		PaymentType:     PaymentGeneral,
	}
	switch {
	case !tx.Validated:
		st.Status = StatusPending
	case tx.Status == txn.ResultSuccess:
		st.Status = StatusCompleted
	default:
		st.Status = StatusFailed
	}

	if len(tx.Memos) > 0 {
		memo := tx.Memos[0]
		st.Memo = memo.Memo()
		if fields, ok := memo.Value.(map[string]any); ok && memo.Kind == normalize.PayloadJSON && fields["type"] == tuitionMemoType {
			st.PaymentType = PaymentTuition
			st.University, _ = fields["university"].(string)
			st.StudentID, _ = fields["studentId"].(string)
			st.Semester, _ = fields["semester"].(string)
			st.Description, _ = fields["description"].(string)
		}
	}
	return st, nil
}

// AccountNFTs lists the tokens an account holds. An account the ledger has
// not seen holds none.
func (s *Service) AccountNFTs(ctx context.Context, address string) ([]normalize.NFT, error) {
	const op = "service.account_nfts"
	if err := txn.CheckAddress(op, "address", address); err != nil {
		return nil, err
	}

	res, err := s.ledger.AccountNFTs(ctx, address)
	if ledger.IsRPCError(err, ledger.ErrActNotFound) {
		return []normalize.NFT{}, nil
	}
	if err != nil {
		return nil, ledger.AppError(op, err)
	}

	out := make([]normalize.NFT, 0, len(res.NFTs))
	for _, n := range res.NFTs {
		out = append(out, normalize.NFTFromAccount(address, n))
	}
	return out, nil
}

// NFTInfo looks a token up by ID. Only Clio servers answer nft_info.
func (s *Service) NFTInfo(ctx context.Context, nftID string) (*normalize.NFT, error) {
	const op = "service.nft_info"
	nftID = strings.TrimSpace(nftID)
	if !isHash256(nftID) {
		return nil, apperr.Validationf(op, "invalid token id %q", nftID)
	}

	res, err := s.ledger.NFTInfo(ctx, nftID)
	if err != nil {
		return nil, ledger.AppError(op, err)
	}
	n := normalize.NFTFromInfo(res)
	return &n, nil
}

// AccountTransactions returns one page of an account's history, newest
// first unless Forward is set.
func (s *Service) AccountTransactions(ctx context.Context, address string, q HistoryQuery) (*TransactionPage, error) {
	const op = "service.account_transactions"
	if err := txn.CheckAddress(op, "address", address); err != nil {
		return nil, err
	}

	limit := q.Limit
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	req := ledger.AccountTxRequest{Account: address, Limit: limit, Forward: q.Forward}
	if q.Marker != "" {
		marker, err := decodeMarker(q.Marker)
		if err != nil {
			return nil, apperr.Validationf(op, "invalid marker: %v", err)
		}
		req.Marker = marker
	}

	res, err := s.ledger.AccountTx(ctx, req)
	if err != nil {
		return nil, ledger.AppError(op, err)
	}

	page := &TransactionPage{Transactions: make([]*normalize.Transaction, 0, len(res.Transactions))}
	for _, entry := range res.Transactions {
		tx, err := normalize.FromAccountTx(entry)
		if err != nil {
			s.logger.Warn("skipping malformed history entry", zap.String("account", address), zap.Error(err))
			continue
		}
		page.Transactions = append(page.Transactions, tx)
	}
	if len(res.Marker) > 0 && string(res.Marker) != "null" {
		page.Marker = encodeMarker(res.Marker)
		page.HasMore = true
	}
	return page, nil
}

// Receipts lists the receipts recorded for an account, newest first.
func (s *Service) Receipts(ctx context.Context, address string, limit int) ([]ReceiptView, error) {
	const op = "service.receipts"
	if err := txn.CheckAddress(op, "address", address); err != nil {
		return nil, err
	}
	if s.receipts == nil {
		return []ReceiptView{}, nil
	}

	list, err := s.receipts.ListByAccount(ctx, address, limit)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	out := make([]ReceiptView, 0, len(list))
	for _, r := range list {
		v := ReceiptView{Receipt: r}
		if json.Valid(r.Raw) {
			v.Result = r.Raw
		}
		out = append(out, v)
	}
	return out, nil
}

// Receipt returns one recorded receipt by hash.
func (s *Service) Receipt(ctx context.Context, hash string) (*ReceiptView, error) {
	const op = "service.receipt"
	if s.receipts == nil {
		return nil, apperr.NotFound(op, "receipt not found")
	}
	r, err := s.receipts.Get(ctx, hash)
	if errors.Is(err, receipts.ErrNotFound) {
		return nil, apperr.NotFound(op, "receipt not found")
	}
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	v := &ReceiptView{Receipt: r}
	if json.Valid(r.Raw) {
		v.Result = r.Raw
	}
	return v, nil
}

func (s *Service) Universities() []directory.Entry {
	return s.directory.Entries()
}

// CacheStats reports validated-transaction cache hits and misses.
func (s *Service) CacheStats() (hits, misses uint64) {
	return s.cache.Stats()
}

func isHash256(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func encodeMarker(raw json.RawMessage) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeMarker(s string) (json.RawMessage, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, errors.New("marker is not JSON")
	}
	return b, nil
}
