package main

import "github.com/orgwarden/orgwarden/pkg/cli"

// Version is replaced at build time via -ldflags.
var Version = "dev"

func main() {
	m := cli.Main{Version: Version}
	m.Main()
}
