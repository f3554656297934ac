package main

import (
	"log"
	"os"

	"github.com/arogyahealth/arogya-go/internal/devserver"
)

func main() {
	addr := os.Getenv("AROGYA_DEV_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	secret := os.Getenv("AROGYA_DEV_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
	}

	srv := devserver.NewServer([]byte(secret))

	log.Printf("mock Arogya backend listening on %s", addr)
	if err := srv.Router().Run(addr); err != nil {
		log.Fatalf("%v", err)
	}
}
