package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Best effort; API keys usually live in the environment already.
	_ = godotenv.Load()
	Execute()
}
