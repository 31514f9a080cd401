package main

import (
	"github.com/meridianesg/ralph/internal/ui/cli"
)

func main() {
	cli.Execute()
}
