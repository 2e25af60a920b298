// Package main is the entry point for the streamfin application.
package main

import (
	"github.com/samber/lo"
	"github.com/streamfin/streamfin/cmd"
	"github.com/streamfin/streamfin/config"
	"github.com/streamfin/streamfin/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
