package main

import (
	"prebuilt-deploy/cmd"
)

// main delegates to cmd.Execute, which parses flags, installs the requested
// prebuilt toolchains and writes <destination>/setup_prebuilt.sh.
//
// Packages are processed one at a time: download, extract, optionally run the
// package's relocation script, then collect its environment exports. The
// setup script is only written once every package has succeeded.
func main() {
	cmd.Execute()
}
