package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/wojtekolesinski/planewars/match"
	"github.com/wojtekolesinski/planewars/server"
	"github.com/wojtekolesinski/planewars/store"
)

func main() {
	port := flag.String("port", "8080", "server port")
	flag.Parse()
	if env := os.Getenv("PORT"); env != "" {
		*port = env
	}

	st := store.New(store.DefaultShootCooldown)
	srv := server.New(match.New(st))

	log.Info("server [main]", "port", *port)
	if err := http.ListenAndServe(":"+*port, srv.Handler()); err != nil {
		log.Fatal("server [main]", "err", err)
	}
}
