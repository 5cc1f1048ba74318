package main

import (
	"github.com/vobj/kvstore/cmd"
)

func main() {
	cmd.Execute()
}
