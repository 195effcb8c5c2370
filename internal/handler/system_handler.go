package handler

import (
	"net/http"

	"lifeos-backend/pkg/response"
)

const ServiceName = "lifeos-backend"

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func Root(w http.ResponseWriter, r *http.Request) {
	response.Message(w, http.StatusOK, "AI LifeOS Backend is running ✅")
}

func Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthResponse{Status: "ok", Service: ServiceName})
}
