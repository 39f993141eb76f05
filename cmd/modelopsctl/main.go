package main

import (
	"os"

	"modelops/internal/ctl"
)

func main() {
	os.Exit(ctl.Main(os.Args[1:]))
}
