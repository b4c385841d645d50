package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/service"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	err := json.NewDecoder(body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		return apperr.Validationf(r.URL.Path, "invalid JSON body: %v", err)
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperr.Validationf(r.URL.Path, "%s must be a non-negative integer", name)
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	connected := s.ledger != nil && s.ledger.Connected()
	data := map[string]any{"ledgerConnected": connected}
	if !connected {
		s.writeJSON(w, r, http.StatusServiceUnavailable, envelope{Message: "ledger unavailable", Data: data})
		return
	}
	s.success(w, r, http.StatusOK, "ok", data)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.CreateWallet(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusCreated, "wallet created", info)
}

type recoverRequest struct {
	Seed string `json:"seed"`
}

func (s *Server) handleRecoverWallet(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Seed == "" {
		s.fail(w, r, apperr.Validation(r.URL.Path, "seed is required"))
		return
	}
	info, err := s.svc.RecoverWallet(req.Seed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "wallet recovered", info)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	balance, err := s.svc.Balance(r.Context(), address)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "balance retrieved", map[string]string{
		"address": address,
		"balance": balance,
	})
}

// paymentBody accepts the amount as a JSON string or number.
type paymentBody struct {
	SenderSeed         string      `json:"senderSeed"`
	Destination        string      `json:"destination"`
	DestinationAddress string      `json:"destinationAddress"`
	Amount             json.Number `json:"amount"`
	Memo               string      `json:"memo"`
}

func (s *Server) handleSendPayment(w http.ResponseWriter, r *http.Request) {
	var body paymentBody
	if err := decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	dest := body.Destination
	if dest == "" {
		dest = body.DestinationAddress
	}
	if err := required(r, map[string]string{
		"senderSeed":  body.SenderSeed,
		"destination": dest,
		"amount":      body.Amount.String(),
	}); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.SendPayment(r.Context(), service.PaymentRequest{
		SenderSeed:  body.SenderSeed,
		Destination: dest,
		Amount:      body.Amount.String(),
		Memo:        body.Memo,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "payment completed", res)
}

type tuitionBody struct {
	StudentSeed    string                  `json:"studentSeed"`
	UniversityName string                  `json:"universityName"`
	Amount         json.Number             `json:"amount"`
	PaymentInfo    *service.TuitionDetails `json:"paymentInfo"`
}

func (s *Server) handleTuition(w http.ResponseWriter, r *http.Request) {
	var body tuitionBody
	if err := decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := required(r, map[string]string{
		"studentSeed":    body.StudentSeed,
		"universityName": body.UniversityName,
		"amount":         body.Amount.String(),
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.PaymentInfo == nil || body.PaymentInfo.StudentID == "" || body.PaymentInfo.Semester == "" {
		s.fail(w, r, apperr.Validation(r.URL.Path, "paymentInfo.studentId and paymentInfo.semester are required"))
		return
	}

	res, err := s.svc.ProcessTuitionPayment(r.Context(), service.TuitionRequest{
		StudentSeed:    body.StudentSeed,
		UniversityName: body.UniversityName,
		Amount:         body.Amount.String(),
		PaymentInfo:    *body.PaymentInfo,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "tuition payment completed", res)
}

type mintBody struct {
	StudentInfo     *service.StudentInfo `json:"studentInfo"`
	ReceiverAddress string               `json:"receiverAddress"`
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var body mintBody
	if err := decode(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.StudentInfo == nil || body.ReceiverAddress == "" {
		s.fail(w, r, apperr.Validation(r.URL.Path, "studentInfo and receiverAddress are required"))
		return
	}
	if err := required(r, map[string]string{
		"studentInfo.name":      body.StudentInfo.Name,
		"studentInfo.school":    body.StudentInfo.School,
		"studentInfo.studentId": body.StudentInfo.StudentID,
	}); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.MintStudentID(r.Context(), service.MintRequest{
		StudentInfo:     *body.StudentInfo,
		ReceiverAddress: body.ReceiverAddress,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusCreated, "student ID issued", res)
}

func (s *Server) handleAccountNFTs(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.AccountNFTs(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "tokens retrieved", list)
}

func (s *Server) handleNFTInfo(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.NFTInfo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "token retrieved", n)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.GetTransaction(r.Context(), mux.Vars(r)["hash"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "transaction retrieved", tx)
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.CheckPaymentStatus(r.Context(), mux.Vars(r)["hash"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "payment status retrieved", st)
}

func (s *Server) handleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	forward, _ := strconv.ParseBool(r.URL.Query().Get("forward"))

	page, err := s.svc.AccountTransactions(r.Context(), mux.Vars(r)["address"], service.HistoryQuery{
		Limit:   limit,
		Marker:  r.URL.Query().Get("marker"),
		Forward: forward,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "transactions retrieved", page)
}

func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.svc.Receipts(r.Context(), mux.Vars(r)["address"], limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, "receipts retrieved", list)
}

func (s *Server) handleUniversities(w http.ResponseWriter, r *http.Request) {
	s.success(w, r, http.StatusOK, "universities retrieved", s.svc.Universities())
}

// required reports the first empty field, in a stable order.
func required(r *http.Request, fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperr.Validationf(r.URL.Path, "%s is required", missing[0])
}
