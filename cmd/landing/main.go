package main

import (
	"fmt"
	"os"

	"github.com/lwmacct/251016-go-pkg-landing/cmd/landing/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
