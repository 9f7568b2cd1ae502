package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parent-portal/domain"
	"parent-portal/services"
)

type createPaymentRequest struct {
	StudentID    int64   `json:"studentId" validate:"required"`
	ParentUserID int64   `json:"parentUserId" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Description  string  `json:"description"`
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentsRouter serves the payment service API.
func PaymentsRouter(svc services.IPaymentService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/api/payments", func(w http.ResponseWriter, req *http.Request) {
		var body createPaymentRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		payment, err := svc.Create(req.Context(), domain.Payment{
			StudentID:    body.StudentID,
			ParentUserID: body.ParentUserID,
			Amount:       body.Amount,
			Description:  body.Description,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, payment)
	})

	r.Get("/api/payments", func(w http.ResponseWriter, req *http.Request) {
		payments, err := svc.GetAll()
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	})

	r.Get("/api/payments/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		payment, err := svc.GetByID(id)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, payment)
	})

	r.Get("/api/payments/byParent/{parentUserId}", func(w http.ResponseWriter, req *http.Request) {
		parentID, err := pathInt(req, "parentUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		payments, err := svc.GetByParent(parentID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	})

	r.Get("/api/payments/byStudent/{studentId}", func(w http.ResponseWriter, req *http.Request) {
		studentID, err := pathInt(req, "studentId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		payments, err := svc.GetByStudent(studentID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, payments)
	})

	r.Patch("/api/payments/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		var body updatePaymentStatusRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		payment, err := svc.UpdateStatus(req.Context(), id, domain.PaymentStatus(body.Status))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, payment)
	})

	r.Delete("/api/payments/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		if err := svc.Delete(id); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
