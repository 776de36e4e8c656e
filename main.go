package main

import (
	"github.com/joho/godotenv"
	"github.com/khrees2412/contactscout/cmd"
)

func main() {
	// A .env file is optional; CONTACTSCOUT_* variables override the config file
	_ = godotenv.Load()

	cmd.Execute()
}
