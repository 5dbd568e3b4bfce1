package main

import (
	"flag"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wojtekolesinski/planewars/app"
	"github.com/wojtekolesinski/planewars/client"
)

const httpClientTimeout = 30 * time.Second

func main() {
	serverAddress := flag.String("server", "http://localhost:8080", "base url of the game server")
	flag.Parse()

	c := client.NewClient(*serverAddress, httpClientTimeout)
	a := app.New(c)

	if err := a.Run(); err != nil {
		log.Fatal("client [main]", "err", err)
	}
}
