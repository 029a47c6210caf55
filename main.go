// Package main is the entry point of the edifice terminal client.
package main

import (
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/cmd"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/config"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/internal/cache"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
