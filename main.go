package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/stvlynn/edgeone-dify-plugin/app"
)

func init() {
	if err := godotenv.Load("vars.env"); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}
}

func main() {
	application, err := app.NewApplication()
	if err != nil {
		log.Fatal(err)
	}

	e := application.Router()
	log.Fatal(e.Start(application.Addr))
}
