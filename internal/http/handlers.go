package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recibos/internal/core"
	"recibos/internal/extenso"
	"recibos/internal/log"
)

type contractPayload struct {
	ID                int64  `json:"id,omitempty"`
	Number            string `json:"number"`
	ClientName        string `json:"client_name"`
	ClientDocument    string `json:"client_document"`
	Description       string `json:"description"`
	Amount            string `json:"amount"` // localized display string
	RecurrenceEnabled bool   `json:"recurrence_enabled"`
	RecurrenceDay     int    `json:"recurrence_day"`
}

type receiptPayload struct {
	ID            int64  `json:"id,omitempty"`
	Number        string `json:"number"`
	ClientName    string `json:"client_name"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	AmountInWords string `json:"amount_in_words,omitempty"`
	IssueDate     string `json:"issue_date"`
	Status        string `json:"status"`
	ContractID    int64  `json:"contract_id,omitempty"`
}

func contractToPayload(c core.Contract) contractPayload {
	return contractPayload{
		ID:                c.ID,
		Number:            c.Number,
		ClientName:        c.ClientName,
		ClientDocument:    c.ClientDocument,
		Description:       c.Description,
		Amount:            c.Amount.Display(),
		RecurrenceEnabled: c.RecurrenceEnabled,
		RecurrenceDay:     c.RecurrenceDay,
	}
}

func receiptToPayload(r core.Receipt) receiptPayload {
	return receiptPayload{
		ID:            r.ID,
		Number:        r.Number,
		ClientName:    r.ClientName,
		Description:   r.Description,
		Amount:        r.Amount.Display(),
		AmountInWords: extenso.Amount(r.Amount),
		IssueDate:     r.IssueDate.Format("2006-01-02"),
		Status:        string(r.Status),
		ContractID:    r.ContractID,
	}
}

func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listContracts(w, r)
	case http.MethodPost:
		s.createContract(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := s.storage.ListContracts(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list contracts", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to load contracts")
		return
	}

	out := make([]contractPayload, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, contractToPayload(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createContract(w http.ResponseWriter, r *http.Request) {
	var in contractPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	contract := core.Contract{
		Number:            sanitizeInput(in.Number),
		ClientName:        sanitizeInput(in.ClientName),
		ClientDocument:    sanitizeInput(in.ClientDocument),
		Description:       sanitizeInput(in.Description),
		Amount:            core.ParseDisplay(in.Amount),
		RecurrenceEnabled: in.RecurrenceEnabled,
		RecurrenceDay:     core.ClampRecurrenceDay(in.RecurrenceDay),
	}

	id, err := s.storage.CreateContract(r.Context(), contract)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to create contract", log.FieldError, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contract.ID = id
	writeJSON(w, http.StatusCreated, contractToPayload(contract))
}

func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReceipts(w, r)
	case http.MethodPost:
		s.createReceipt(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listReceipts(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	key := fmt.Sprintf("%04d-%02d", year, month)

	receipts, ok := s.receiptsCache.Get(key)
	if !ok {
		var err error
		receipts, err = s.storage.ListReceiptsByMonth(r.Context(), year, month)
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list receipts",
				log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "failed to load receipts")
			return
		}
		s.receiptsCache.Set(key, receipts)
	}

	out := make([]receiptPayload, 0, len(receipts))
	for _, rc := range receipts {
		out = append(out, receiptToPayload(rc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createReceipt(w http.ResponseWriter, r *http.Request) {
	var in receiptPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	issueDate, err := parseDate(in.IssueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid issue_date, expected YYYY-MM-DD")
		return
	}

	status := core.ReceiptStatus(in.Status)
	if in.Status == "" {
		status = core.StatusIssued
	}

	receipt := core.Receipt{
		Number:      sanitizeInput(in.Number),
		ClientName:  sanitizeInput(in.ClientName),
		Description: sanitizeInput(in.Description),
		Amount:      core.ParseDisplay(in.Amount),
		IssueDate:   issueDate,
		Status:      status,
		ContractID:  in.ContractID,
	}

	id, err := s.receipts.CreateReceipt(r.Context(), receipt)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to create receipt", log.FieldError, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt.ID = id
	s.receiptsCache.Delete(fmt.Sprintf("%04d-%02d", issueDate.Year(), issueDate.Month()))
	writeJSON(w, http.StatusCreated, receiptToPayload(receipt))
}

// handleAmountPreview echoes how a raw entry field value renders: localized
// display string plus the spelled-out phrase used on the printed receipt.
func (s *Server) handleAmountPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	display := previewInput(r)
	amount := core.ParseDisplay(display)

	writeJSON(w, http.StatusOK, map[string]string{
		"display":  display,
		"brl":      formatBRL(amount),
		"in_words": extenso.Amount(amount),
	})
}

// previewInput resolves the preview input: ?digits= takes a raw keystroke
// stream, ?display= takes an already-formatted value.
func previewInput(r *http.Request) string {
	if digits := r.URL.Query().Get("digits"); digits != "" {
		return core.DigitsToDisplay(digits)
	}
	return r.URL.Query().Get("display")
}

func (s *Server) handleRecurrenceRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		now = d.Time
	}

	created, err := s.processor.ProcessDueContracts(r.Context(), now)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Recurrence run failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "recurrence run failed")
		return
	}

	if created > 0 {
		s.receiptsCache.Delete(fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month())))
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
