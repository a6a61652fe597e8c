package main

import (
	"log"

	"github.com/degyhq/degy/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ degy failed to start: %v", err)
	}
}
