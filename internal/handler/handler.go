package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/balance"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/middleware"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/repository"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers the API on r. Everything but /health and /metrics goes through auth.
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/").Subrouter()
	api.Use(auth)
	api.HandleFunc("/amortization", h.Simulate).Methods("POST")
	api.HandleFunc("/loans/{id}/amortization", h.LoanSchedule).Methods("GET")
	api.HandleFunc("/loans/{id}/balance", h.LoanBalance).Methods("GET")
	api.HandleFunc("/notifications", h.Notifications).Methods("GET")
	api.HandleFunc("/reference-rate", h.ReferenceRate).Methods("GET")
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Simulate computes a schedule from posted loan terms
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req service.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	schedule, err := h.svc.Simulate(req, tableOptions(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// LoanSchedule computes the schedule of a stored loan
func (h *Handler) LoanSchedule(w http.ResponseWriter, r *http.Request) {
	employee, loanID, ok := h.loanRequest(w, r)
	if !ok {
		return
	}
	schedule, err := h.svc.LoanSchedule(r.Context(), employee.CompanyID, loanID, tableOptions(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// LoanBalance returns the balance breakdown of a stored loan
func (h *Handler) LoanBalance(w http.ResponseWriter, r *http.Request) {
	employee, loanID, ok := h.loanRequest(w, r)
	if !ok {
		return
	}
	b, err := h.svc.LoanBalance(r.Context(), employee, loanID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Notifications returns the caller's company reminders
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	employee, ok := middleware.EmployeeFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Notifications(r.Context(), employee.CompanyID))
}

// ReferenceRate returns the suggested lending rate
func (h *Handler) ReferenceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.ReferenceRate(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get reference rate: %v", err)
		http.Error(w, "Reference rate unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

func (h *Handler) loanRequest(w http.ResponseWriter, r *http.Request) (models.Employee, uuid.UUID, bool) {
	employee, ok := middleware.EmployeeFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return employee, uuid.Nil, false
	}
	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid loan id", http.StatusBadRequest)
		return employee, uuid.Nil, false
	}
	return employee, loanID, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Loan not found", http.StatusNotFound)
	case errors.Is(err, balance.ErrSuperseded):
		http.Error(w, "Superseded by a newer request", http.StatusConflict)
	case errors.Is(err, context.Canceled):
		http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
	default:
		h.log.Errorf("Request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func tableOptions(r *http.Request) service.TableOptions {
	q := r.URL.Query()
	return service.TableOptions{
		Query: q.Get("q"),
		Sort:  q.Get("sort"),
		Desc:  strings.EqualFold(q.Get("order"), "desc"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
