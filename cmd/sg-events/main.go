package main

import (
	"github.com/kaiwenlim/sg-events/internal/cli"
)

func main() {
	cli.Execute()
}
