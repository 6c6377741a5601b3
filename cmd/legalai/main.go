// Package main is the entry point for the Legal AI Assistant server.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/legalai/cmd/legalai/app"
)

func main() {
	app.NewApp().Run()
}
