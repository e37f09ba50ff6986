package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/vcxsync/vcxsync/cmd"
)

func main() {
	cmd.Execute()
}
