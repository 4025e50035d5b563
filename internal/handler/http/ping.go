package http

import (
	"net/http"
	"time"

	"github.com/utafrali/gearcatalog/pkg/httputil"
)

const apiVersion = "1.0"

type pingResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// Ping handles GET /v1/ping.
func Ping(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, pingResponse{
		Status:  "ok",
		Version: apiVersion,
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
