package web_server_service

import (
	"log"
	"net/http"
)

// WebServer is the keep-alive endpoint for free-tier hosting: uptime
// probes hit GET / and keep the dyno awake. It has no other purpose and
// process shutdown does not wait for it.
type WebServer struct {
	port string
}

func NewWebServer(port string) *WebServer {
	return &WebServer{port: port}
}

func (ws *WebServer) Start() error {
	log.Printf("Starting keep-alive server on port %s", ws.port)
	return http.ListenAndServe(":"+ws.port, ws.Handler())
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleRoot)
	mux.HandleFunc("/health/", ws.handleHealthCheck)
	return mux
}

func (ws *WebServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("✅ Professional Dropbox Bot is alive."))
}

func (ws *WebServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
