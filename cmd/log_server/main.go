package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// Collector for the LoggedClient's remote log entries. Keeps the last
// thousand entries in memory for /logs and appends everything to a daily
// file.
type LogStorage struct {
	mu   sync.Mutex
	logs []map[string]interface{}
	file *os.File
}

var storage *LogStorage

func main() {
	os.MkdirAll("/logs", 0755)

	logFile, err := os.OpenFile(
		fmt.Sprintf("/logs/http_%s.log", time.Now().Format("2006-01-02")),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()

	storage = &LogStorage{
		logs: make([]map[string]interface{}, 0),
		file: logFile,
	}

	http.HandleFunc("/log", handleLog)
	http.HandleFunc("/logs", handleGetLogs)
	http.HandleFunc("/health", handleHealth)

	port := "8081"
	log.Printf("Log server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func handleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(body, &logEntry); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	storage.mu.Lock()
	defer storage.mu.Unlock()

	storage.logs = append(storage.logs, logEntry)
	if len(storage.logs) > 1000 {
		storage.logs = storage.logs[1:]
	}

	storage.file.WriteString(string(body) + "\n")
	storage.file.Sync()

	log.Printf("[%v] %v -> %v (%vms)",
		logEntry["method"], logEntry["url"], logEntry["status_code"], logEntry["duration_ms"])
	if logEntry["error"] != nil {
		log.Printf("  ERROR: %s", logEntry["error"])
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleGetLogs(w http.ResponseWriter, r *http.Request) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(storage.logs)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
