package main

import (
	"os"

	"tapoctl/cmd/tapo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
