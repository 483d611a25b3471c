package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/content"
	"github.com/dmitrijs2005/folio/internal/server/models"
)

const maxJSONBody = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return errors.Join(common.ErrorValidation, err)
	}
	return nil
}

// documentJSON flattens a document into its fields plus "id".
func documentJSON(d models.Document) map[string]any {
	out := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["id"] = d.ID
	return out
}

// apiCollection lists a public collection. orderBy and dir are optional.
func (s *Server) apiCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !content.Public(name) {
		writeJSONError(w, http.StatusNotFound, common.ErrorUnknownCollection.Error())
		return
	}
	q := r.URL.Query()
	order := models.Order{}
	if f := q.Get("orderBy"); f != "" {
		order = models.By(f, models.ParseDirection(q.Get("dir")))
	}

	docs, err := s.site.Content().List(r.Context(), name, order)
	if err != nil {
		s.logger.Error(r.Context(), "api list failed", "collection", name, "error", err)
		writeJSONError(w, statusFor(err), userMessage(err))
		return
	}
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentJSON(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.site.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, statusFor(err), userMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type commentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// apiPostComment returns the thread entry for the new comment: confirmed
// with 201, or failed together with an error.
func (s *Server) apiPostComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := s.site.Comments(ctx, id)
	if err != nil {
		writeJSONError(w, statusFor(err), userMessage(err))
		return
	}
	thread := content.NewThread(stored)

	entry, err := s.site.PostComment(ctx, thread, content.Comment{BlogID: id, Name: req.Name, Text: req.Text})
	if err != nil {
		s.logger.Warn(ctx, "api comment failed", "blog", id, "error", err)
		if entry.State == "" {
			writeJSONError(w, statusFor(err), userMessage(err))
			return
		}
		entry.Error = userMessage(err)
		writeJSON(w, statusFor(err), entry)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) apiMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": "invalid request body"})
		return
	}
	id, err := s.site.SubmitMessage(r.Context(), content.Message{Name: req.Name, Email: req.Email, Message: req.Message})
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"status": "error", "error": userMessage(err)})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "success", "id": id})
}

func (s *Server) apiTicker(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ticker.Rows())
}

type orderRequest struct {
	Amount float64 `json:"amount"`
}

// apiCreateOrder returns the gateway's order object as is. Gateway errors
// are passed through with their message.
func (s *Server) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := s.payments.CreateOrder(r.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidAmount) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (s *Server) apiVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.payments.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature); err != nil {
		if errors.Is(err, common.ErrorInvalidSignature) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(r.Context(), "payment verification failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, genericError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect": "/success"})
}

func (s *Server) apiWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.payments.HandleWebhook(r.Context(), body, r.Header.Get("X-Razorpay-Signature")); err != nil {
		status := statusFor(err)
		writeJSONError(w, status, userMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
