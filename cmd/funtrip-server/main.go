// Package main — точка входа funtrip-server (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/siwu-945/FunTrip-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
