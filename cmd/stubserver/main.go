package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"livestock-client/internal/stubapi"
)

func main() {
	addr := ":8000"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	stub := stubapi.NewServer(stubapi.Options{
		Secret: os.Getenv("STUB_JWT_SECRET"),
		Seed:   true,
	})

	// El cliente usa base .../api, igual que el backend real.
	r := chi.NewRouter()
	r.Mount("/api", stub.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting stub api on %s (user admin/password123)", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
