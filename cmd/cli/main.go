package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/avilov/authgate/internal/client/api"
	"github.com/avilov/authgate/internal/client/cli"
)

func main() {

	server := flag.String("s", "http://localhost:3000", "server base URL")
	flag.Parse()

	app := cli.NewApp(api.NewClient(*server), os.Stdin, os.Stdout)

	if err := app.Run(context.Background()); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
