package main

import (
	"context"
	"log"

	"github.com/aquavo/authcore/internal/server"
)

func main() {

	ctx := context.Background()
	app, err := server.NewApp(ctx)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
