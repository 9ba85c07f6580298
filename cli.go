//go:build cli
// +build cli

package main

import (
	"stockledger.GO/cmd"
	"stockledger.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
