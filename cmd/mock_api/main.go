package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/mock-api/handlers"
)

// A local stand-in for the Dropbox endpoints the bot calls, so the relay
// can be developed without real credentials. Point the bot at it with
// DROPBOX_API_BASE_URL / DROPBOX_CONTENT_BASE_URL / DROPBOX_AUTH_BASE_URL.
func main() {
	http.HandleFunc("/oauth2/token", handlers.TokenHandler)
	http.HandleFunc("/2/users/get_current_account", handlers.AccountHandler)
	http.HandleFunc("/2/files/upload", handlers.UploadHandler)
	http.HandleFunc("/2/sharing/create_shared_link_with_settings", handlers.ShareHandler)
	http.HandleFunc("/2/sharing/list_shared_links", handlers.ListLinksHandler)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	port := ":8082"
	fmt.Printf("Mock Dropbox API listening on %s\n", port)
	fmt.Println("Endpoints:")
	fmt.Println("   POST /oauth2/token")
	fmt.Println("   POST /2/users/get_current_account")
	fmt.Println("   POST /2/files/upload")
	fmt.Println("   POST /2/sharing/create_shared_link_with_settings")
	fmt.Println("   POST /2/sharing/list_shared_links")
	fmt.Println("   GET  /health")

	log.Fatal(http.ListenAndServe(port, nil))
}
