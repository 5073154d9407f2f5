package main

import (
	"github.com/andrescamacho/railempire-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
