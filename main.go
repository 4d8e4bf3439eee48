package main

import (
	"github.com/cerc-io/xcm-emulator/cmd"
)

func main() {
	cmd.Execute()
}
