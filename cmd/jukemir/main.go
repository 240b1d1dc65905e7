package main

import (
	"os"

	"github.com/hugofloresgarcia/simplified-jukemir/cmd/jukemir/app"
)

func main() {
	cmd := app.NewJukemirCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
