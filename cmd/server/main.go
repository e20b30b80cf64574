package main

import (
	"github.com/stockpulse/stockinfo-backend/internal/server"
)

func main() {
	server.Init()
}
