package main

import (
	"log"
	"net/http"

	"tactics/internal/battle"
	"tactics/internal/session"
	"tactics/internal/web"
)

func main() {
	lib, err := battle.LoadLibrary("data")
	if err != nil {
		log.Printf("no data directory, using built-in templates: %v", err)
		lib = battle.DefaultLibrary()
	}

	srv := &web.Server{
		Lib:   lib,
		Store: session.NewMemoryStore[web.Record](),
		Hub:   web.NewHub(),
	}

	log.Println("listening on http://localhost:8080")
	log.Fatal(http.ListenAndServe(":8080", srv.Routes()))
}
