package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/directory"
	"github.com/LeJamon/campuspay/internal/normalize"
	"github.com/LeJamon/campuspay/internal/service"
)

const (
	address = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	hash    = "E3FE6EA3D48F0C2B639448020EA4F03D4F4F8FFDB243A852A0F59177921B4879"
)

// fakeService returns canned results; calls counts every invocation.
type fakeService struct {
	calls   int
	err     error
	payment service.PaymentRequest
	tuition service.TuitionRequest
	mint    service.MintRequest
	query   service.HistoryQuery
}

func (f *fakeService) CreateWallet(context.Context) (*service.WalletInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &service.WalletInfo{Address: address, PublicKey: "ED01", Seed: "sEdSecret", Balance: "100"}, nil
}

func (f *fakeService) RecoverWallet(seed string) (*service.WalletInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &service.WalletInfo{Address: address, PublicKey: "ED01"}, nil
}

func (f *fakeService) Balance(_ context.Context, addr string) (string, error) {
	f.calls++
	return "12.5", f.err
}

func (f *fakeService) SendPayment(_ context.Context, req service.PaymentRequest) (*service.PaymentReceipt, error) {
	f.calls++
	f.payment = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.PaymentReceipt{Hash: hash, Sender: address, Receiver: req.Destination, Amount: req.Amount}, nil
}

func (f *fakeService) ProcessTuitionPayment(_ context.Context, req service.TuitionRequest) (*service.PaymentReceipt, error) {
	f.calls++
	f.tuition = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.PaymentReceipt{Hash: hash, PaymentInfo: &service.TuitionInfo{University: req.UniversityName}}, nil
}

func (f *fakeService) MintStudentID(_ context.Context, req service.MintRequest) (*service.MintReceipt, error) {
	f.calls++
	f.mint = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.MintReceipt{NFTID: "0008", Owner: req.ReceiverAddress, StudentInfo: req.StudentInfo, TransactionHash: hash}, nil
}

func (f *fakeService) AccountNFTs(context.Context, string) ([]normalize.NFT, error) {
	f.calls++
	return []normalize.NFT{{ID: "0008", Issuer: address}}, f.err
}

func (f *fakeService) NFTInfo(_ context.Context, id string) (*normalize.NFT, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &normalize.NFT{ID: id}, nil
}

func (f *fakeService) GetTransaction(_ context.Context, h string) (*normalize.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &normalize.Transaction{Hash: h, Type: "Payment", Details: &normalize.PaymentDetails{Destination: address}}, nil
}

func (f *fakeService) CheckPaymentStatus(_ context.Context, h string) (*service.PaymentStatus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &service.PaymentStatus{Hash: h, Status: service.StatusCompleted, PaymentType: service.PaymentGeneral}, nil
}

func (f *fakeService) AccountTransactions(_ context.Context, _ string, q service.HistoryQuery) (*service.TransactionPage, error) {
	f.calls++
	f.query = q
	return &service.TransactionPage{Transactions: []*normalize.Transaction{}}, f.err
}

func (f *fakeService) Receipts(context.Context, string, int) ([]service.ReceiptView, error) {
	f.calls++
	return []service.ReceiptView{}, f.err
}

func (f *fakeService) Universities() []directory.Entry {
	f.calls++
	return []directory.Entry{{Name: "Yonsei University", Address: address}}
}

type ledgerStatus bool

func (l ledgerStatus) Connected() bool { return bool(l) }

type response struct {
	Success    bool            `json:"success"`
	Status     int             `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Code       string          `json:"code"`
	ResultCode string          `json:"resultCode"`
	Hash       string          `json:"hash"`
	RequestID  string          `json:"requestId"`
	Timestamp  string          `json:"timestamp"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func newTestServer(svc *fakeService, connected bool) http.Handler {
	return NewServer(svc, ledgerStatus(connected), Options{Addr: "127.0.0.1:0"}, zap.NewNop()).Handler()
}

func TestHealth(t *testing.T) {
	rec, resp := do(t, newTestServer(&fakeService{}, true), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"ledgerConnected":true}`, string(resp.Data))

	rec, resp = do(t, newTestServer(&fakeService{}, false), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, resp.Success)
}

func TestCreateWallet(t *testing.T) {
	rec, resp := do(t, newTestServer(&fakeService{}, true), http.MethodPost, "/api/wallet/create", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, rec.Header().Get("X-Request-ID"))

	var info service.WalletInfo
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	assert.Equal(t, address, info.Address)
	assert.Equal(t, "100", info.Balance)
}

func TestRecoverWalletRequiresSeed(t *testing.T) {
	svc := &fakeService{}
	rec, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/wallet/recover", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Zero(t, svc.calls)

	rec, _ = do(t, newTestServer(svc, true), http.MethodPost, "/api/wallet/recover", `{"seed":"sEdX"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSendPaymentAcceptsNumericAmount(t *testing.T) {
	svc := &fakeService{}
	rec, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/send",
		`{"senderSeed":"sEdX","destinationAddress":"`+address+`","amount":10.5,"memo":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "10.5", svc.payment.Amount)
	assert.Equal(t, address, svc.payment.Destination)
	assert.Equal(t, "hi", svc.payment.Memo)

	_, _ = do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/send",
		`{"senderSeed":"sEdX","destination":"`+address+`","amount":"7"}`)
	assert.Equal(t, "7", svc.payment.Amount)
}

func TestSendPaymentValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"senderSeed":"s","destination":"r"}`},
		{"missing seed", `{"destination":"r","amount":"1"}`},
		{"malformed json", `{"senderSeed":`},
		{"non numeric amount", `{"senderSeed":"s","destination":"r","amount":"ten"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/send", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validation("op", "bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperr.InvalidSeed("op", nil), http.StatusBadRequest, "INVALID_SEED"},
		{apperr.NotFound("op", "university not registered"), http.StatusNotFound, "NOT_FOUND"},
		{apperr.TransactionFailed("op", "tecUNFUNDED_PAYMENT", hash), http.StatusUnprocessableEntity, "TRANSACTION_FAILED"},
		{apperr.UnknownOutcome("op", hash, context.DeadlineExceeded), http.StatusAccepted, "UNKNOWN_OUTCOME"},
		{apperr.Network("op", context.DeadlineExceeded), http.StatusBadGateway, "NETWORK_ERROR"},
		{apperr.Connection("op", context.DeadlineExceeded), http.StatusBadGateway, "CONNECTION_ERROR"},
		{apperr.Submission("op", context.DeadlineExceeded), http.StatusBadGateway, "SUBMISSION_ERROR"},
		{apperr.Funding("op", context.DeadlineExceeded), http.StatusBadGateway, "FUNDING_ERROR"},
		{apperr.InconsistentResult("op", "no token", hash), http.StatusInternalServerError, "INCONSISTENT_RESULT"},
		{context.Canceled, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/send",
				`{"senderSeed":"s","destination":"r","amount":"1"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.code, resp.Code)
			assert.False(t, resp.Success)
			assert.NotContains(t, rec.Body.String(), "deadline")
		})
	}

	svc := &fakeService{err: apperr.TransactionFailed("op", "tecUNFUNDED_PAYMENT", hash)}
	_, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/send", `{"senderSeed":"s","destination":"r","amount":"1"}`)
	assert.Equal(t, "tecUNFUNDED_PAYMENT", resp.ResultCode)
	assert.Equal(t, hash, resp.Hash)
	assert.Contains(t, resp.Message, "tecUNFUNDED_PAYMENT")
}

func TestTuition(t *testing.T) {
	svc := &fakeService{}
	rec, _ := do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/tuition",
		`{"studentSeed":"s","universityName":"Yonsei University","amount":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)

	rec, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/payment/tuition",
		`{"studentSeed":"s","universityName":"Yonsei University","amount":100,"paymentInfo":{"studentId":"2021000","semester":"2024-1"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "100", svc.tuition.Amount)
	assert.Equal(t, "2021000", svc.tuition.PaymentInfo.StudentID)
}

func TestMint(t *testing.T) {
	svc := &fakeService{}
	rec, resp := do(t, newTestServer(svc, true), http.MethodPost, "/api/nft/mint",
		`{"studentInfo":{"name":"Kim","school":"X University"},"receiverAddress":"`+address+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Message, "studentInfo.studentId")
	assert.Zero(t, svc.calls)

	rec, resp = do(t, newTestServer(svc, true), http.MethodPost, "/api/nft/mint",
		`{"studentInfo":{"name":"Kim","school":"X University","studentId":"2021000"},"receiverAddress":"`+address+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got service.MintReceipt
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "Kim", got.StudentInfo.Name)
	assert.Equal(t, address, got.Owner)
}

func TestQueries(t *testing.T) {
	svc := &fakeService{}
	h := newTestServer(svc, true)

	paths := []string{
		"/api/wallet/" + address + "/balance",
		"/api/nft/account/" + address,
		"/api/nft/" + hash,
		"/api/transaction/" + hash,
		"/api/transaction/" + hash + "/status",
		"/api/receipts/" + address,
		"/api/universities",
	}
	for _, p := range paths {
		rec, resp := do(t, h, http.MethodGet, p, "")
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.True(t, resp.Success, p)
	}

	rec, resp := do(t, h, http.MethodGet, "/api/transaction/"+hash, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tx map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &tx))
	assert.Equal(t, address, tx["destination"])

	rec, _ = do(t, h, http.MethodGet, "/api/account/"+address+"/transactions?limit=5&marker=abc&forward=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.HistoryQuery{Limit: 5, Marker: "abc", Forward: true}, svc.query)

	rec, _ = do(t, h, http.MethodGet, "/api/account/"+address+"/transactions?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouting(t *testing.T) {
	h := newTestServer(&fakeService{}, true)

	rec, resp := do(t, h, http.MethodGet, "/api/payment/send", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = do(t, h, http.MethodGet, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/payment/send", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, "*", out.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestServer(&fakeService{}, true)
	req := httptest.NewRequest(http.MethodGet, "/api/universities", nil)
	req.Header.Set("X-Request-ID", "6f1c2a0e-8d5b-4f43-9d8e-0b7f0d8e2c11")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "6f1c2a0e-8d5b-4f43-9d8e-0b7f0d8e2c11", rec.Header().Get("X-Request-ID"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := NewServer(&fakeService{}, ledgerStatus(true), Options{Addr: "127.0.0.1:0"}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
