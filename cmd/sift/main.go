package main

import (
	"log"

	"github.com/MrSnakeDoc/sift/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ sift failed to start: %v", err)
	}
}
