package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

// newServiceProxy builds a reverse proxy for one backend service. The
// gateway forwards credentials untouched and makes no authorization
// decisions; server response codes pass through as the single source of
// truth for authorization outcomes.
func newServiceProxy(target string, logger *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(u)

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("Upstream request failed",
			zap.String("target", u.Host),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		if _, err := w.Write([]byte(`{"error":"Upstream service unavailable"}`)); err != nil {
			logger.Error("Failed to write proxy error response", zap.Error(err))
		}
	}

	return proxy, nil
}
