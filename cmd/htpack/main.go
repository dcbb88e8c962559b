package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/DarrenMaxi/HTPSource/internal/cli"
	"github.com/DarrenMaxi/HTPSource/internal/logging"
)

func main() {
	defer logging.Sync()
	cli.Execute()
}
