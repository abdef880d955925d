package httpapi

import (
	"net/http"
	"time"
)

// NewServer wraps the API routes with request logging.
func NewServer(addr string, api *API) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           requestLogger(api.logger, api.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
