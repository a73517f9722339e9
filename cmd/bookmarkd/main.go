package main

import (
	"log"

	"github.com/meCeltic/Bookmark-AI/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bookmarkd failed: %v", err)
	}
}
