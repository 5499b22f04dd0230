package main

import (
	"fmt"
	"os"

	"github.com/state-scan/state-scan/cmd/statescan"
)

func main() {
	if err := statescan.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
