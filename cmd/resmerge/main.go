package main

import "github.com/resmerge/resmerge/internal/cli"

// version is set by the linker at release build time.
var version = ""

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
