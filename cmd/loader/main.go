// Package main is the entry point for the legal document loader.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/legalai/cmd/loader/app"
)

func main() {
	app.NewApp().Run()
}
