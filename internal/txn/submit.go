package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Peersyst/xrpl-go/xrpl/transaction"
	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/ledger"
	"github.com/LeJamon/campuspay/internal/xrpamount"
)

// Ledger is the set of ledger requests the submitter needs.
type Ledger interface {
	AccountInfo(ctx context.Context, account, ledgerIndex string) (*ledger.AccountInfoResult, error)
	Fee(ctx context.Context) (*ledger.FeeResult, error)
	LedgerCurrent(ctx context.Context) (uint32, error)
	ValidatedLedgerIndex(ctx context.Context) (uint32, error)
	Submit(ctx context.Context, txBlob string) (*ledger.SubmitResult, error)
	Tx(ctx context.Context, hash string) (*ledger.TxResponse, error)
}

// Options bounds fees, ledger expiry and how long finality is awaited.
// Zero values take defaults.
type Options struct {
	LastLedgerOffset uint32
	MaxFee           xrpamount.XRPAmount
	FinalityTimeout  time.Duration
	PollInterval     time.Duration
	AutofillRetries  int
}

func (o *Options) applyDefaults() {
	if o.LastLedgerOffset == 0 {
		o.LastLedgerOffset = 20
	}
	if o.MaxFee <= 0 {
		o.MaxFee = 2 * xrpamount.DropsPerXRP
	}
	if o.FinalityTimeout <= 0 {
		o.FinalityTimeout = 60 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.AutofillRetries < 0 {
		o.AutofillRetries = 0
	}
}

// DefaultOptions allows one autofill retry.
func DefaultOptions() Options {
	o := Options{AutofillRetries: 1}
	o.applyDefaults()
	return o
}

// Submitter runs transactions through autofill, signing, submission and
// finality tracking. A transaction is never resubmitted automatically.
type Submitter struct {
	ledger Ledger
	opts   Options
	logger *zap.Logger
}

// NewSubmitter returns a Submitter that talks to l.
func NewSubmitter(l Ledger, opts Options, logger *zap.Logger) *Submitter {
	opts.applyDefaults()
	return &Submitter{
		ledger: l,
		opts:   opts,
		logger: logger.Named("txn"),
	}
}

var errExpired = errors.New("validated ledger passed LastLedgerSequence without the transaction")

// Pay sends an XRP payment. On a final non-success result it returns the
// Result together with a TransactionFailed error carrying the code.
func (s *Submitter) Pay(ctx context.Context, intent PaymentIntent) (*Result, error) {
	const op = "txn.payment"
	if intent.Signer == nil {
		return nil, apperr.Validation(op, "signer is required")
	}

	tx, drops, err := BuildPayment(intent.Signer.Address(), intent)
	if err != nil {
		return nil, err
	}
	res, err := s.submit(ctx, op, intent.Signer, tx)
	if res != nil {
		res.Amount = drops
	}
	return res, err
}

// Mint mints an NFT and reports the new token ID. A successful mint whose
// metadata names no new token yields an InconsistentResult error.
func (s *Submitter) Mint(ctx context.Context, intent MintIntent) (*Result, error) {
	const op = "txn.mint"
	if intent.Signer == nil {
		return nil, apperr.Validation(op, "signer is required")
	}

	tx, err := BuildMint(intent.Signer.Address(), intent)
	if err != nil {
		return nil, err
	}
	res, err := s.submit(ctx, op, intent.Signer, tx)
	if err != nil {
		return res, err
	}

	id, ok := MintedTokenID(res.Tx.Meta)
	if !ok {
		s.logger.Error("minted token not found in metadata", zap.String("hash", res.Hash))
		return res, apperr.InconsistentResult(op, "mint succeeded but no new token appears in the metadata", res.Hash)
	}
	res.NFTokenID = id
	return res, nil
}

func (s *Submitter) submit(ctx context.Context, op string, signer Signer, tx transaction.FlatTransaction) (*Result, error) {
	account := signer.Address()

	lastLedger, err := s.autofill(ctx, tx, account)
	if err != nil {
		return nil, autofillError(op, err)
	}

	blob, hash, err := signer.Sign(tx)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	res := &Result{Outcome: OutcomeUnknown, Hash: hash, Account: account}

	log := s.logger.With(
		zap.String("hash", hash),
		zap.Any("type", tx["TransactionType"]),
		zap.String("account", account))

	prelim, err := s.ledger.Submit(ctx, blob)
	if err != nil {
		log.Warn("submit failed", zap.Error(err))
		e := apperr.Submission(op, err)
		e.Hash = hash
		return res, e
	}
	log.Info("transaction submitted",
		zap.String("engine_result", prelim.EngineResult),
		zap.Uint32("last_ledger_sequence", lastLedger))

	if neverApplies(prelim.EngineResult) {
		res.Outcome = OutcomeFailed
		res.Code = prelim.EngineResult
		return res, apperr.TransactionFailed(op, prelim.EngineResult, hash)
	}

	final, err := s.await(ctx, hash, lastLedger)
	if err != nil {
		log.Warn("transaction outcome unknown", zap.Error(err))
		return res, apperr.UnknownOutcome(op, hash, err)
	}

	res.Tx = final
	res.Code = final.Meta.TransactionResult
	res.Outcome = Classify(res.Code)
	res.LedgerIndex = final.LedgerIndex
	if fee, err := xrpamount.ParseDrops(final.Fee); err == nil {
		res.Fee = fee
	}

	if res.Outcome != OutcomeSuccess {
		log.Info("transaction failed", zap.String("result", res.Code), zap.Uint32("ledger_index", res.LedgerIndex))
		return res, apperr.TransactionFailed(op, res.Code, hash)
	}
	log.Info("transaction validated", zap.Uint32("ledger_index", res.LedgerIndex))
	return res, nil
}

// neverApplies reports preliminary results for transactions that were
// neither applied nor relayed and so cannot appear in a later ledger.
func neverApplies(code string) bool {
	for _, p := range []string{"tem", "tef", "tel"} {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

func autofillError(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	if ledger.IsTransient(err) {
		return apperr.Network(op, err)
	}
	return ledger.AppError(op, err)
}

// autofill sets Sequence, Fee and LastLedgerSequence, retrying transport
// failures up to AutofillRetries times.
func (s *Submitter) autofill(ctx context.Context, tx transaction.FlatTransaction, account string) (uint32, error) {
	var lastLedger uint32
	var err error
	for attempt := 0; attempt <= s.opts.AutofillRetries; attempt++ {
		lastLedger, err = s.autofillOnce(ctx, tx, account)
		if err == nil || !ledger.IsTransient(err) || ctx.Err() != nil {
			break
		}
		s.logger.Warn("autofill failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return lastLedger, err
}

func (s *Submitter) autofillOnce(ctx context.Context, tx transaction.FlatTransaction, account string) (uint32, error) {
	info, err := s.ledger.AccountInfo(ctx, account, "current")
	if err != nil {
		if ledger.IsRPCError(err, ledger.ErrActNotFound) {
			return 0, apperr.Validationf("txn.autofill", "sending account %s does not exist on the ledger", account)
		}
		return 0, fmt.Errorf("account_info: %w", err)
	}

	fees, err := s.ledger.Fee(ctx)
	if err != nil {
		return 0, fmt.Errorf("fee: %w", err)
	}
	fee, err := s.pickFee(fees)
	if err != nil {
		return 0, err
	}

	current, err := s.ledger.LedgerCurrent(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledger_current: %w", err)
	}

	lastLedger := current + s.opts.LastLedgerOffset
	tx["Sequence"] = info.AccountData.Sequence
	tx["Fee"] = fee.String()
	tx["LastLedgerSequence"] = lastLedger
	return lastLedger, nil
}

// pickFee uses the open ledger fee, never below the base fee and never above
// the configured maximum.
func (s *Submitter) pickFee(fees *ledger.FeeResult) (xrpamount.XRPAmount, error) {
	base, err := xrpamount.ParseDrops(fees.Drops.BaseFee)
	if err != nil {
		return 0, fmt.Errorf("fee: %w", err)
	}
	fee := base
	if open, err := xrpamount.ParseDrops(fees.Drops.OpenLedgerFee); err == nil && open > fee {
		fee = open
	}
	return fee.Min(s.opts.MaxFee), nil
}

// await polls tx until the transaction is in a validated ledger, the
// finality timeout passes, or the validated ledger moves past lastLedger.
func (s *Submitter) await(ctx context.Context, hash string, lastLedger uint32) (*ledger.TxResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FinalityTimeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		tx, err := s.ledger.Tx(ctx, hash)
		switch {
		case err == nil && tx.Validated && tx.Meta != nil:
			return tx, nil
		case err == nil:
		case ledger.IsRPCError(err, ledger.ErrTxnNotFound):
			validated, verr := s.ledger.ValidatedLedgerIndex(ctx)
			if verr == nil && validated > lastLedger {
				return nil, errExpired
			}
		default:
			if ctx.Err() == nil {
				s.logger.Debug("tx poll failed", zap.String("hash", hash), zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
