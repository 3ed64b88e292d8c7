package main

import (
	"os"

	"github.com/sahib/cowdisk/cmd"
)

func main() {
	os.Exit(cmd.RunCmdline(os.Args))
}
