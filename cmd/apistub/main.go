// Command apistub runs the in-memory stand-in for the portal backend.
// Point the client at it with: kelascli -a http://localhost:8085
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/infokelas/kelascli/internal/stubserver"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8085", "listen address")
	secret := flag.String("secret", os.Getenv("APISTUB_JWT_SECRET"), "token signing secret")
	flag.Parse()

	if *secret == "" {
		*secret = "dev-only-secret"
	}

	srv, err := stubserver.New(*secret)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Fatal(srv.Start(*addr))
}
