package main

import (
	"github.com/deso-protocol/pearldiver/cmd"
)

func main() {
	// Commands and their flags live in the cmd package. For example
	// $ ./pearldiver pow --trytes ... --mwm 14
	// runs runPow in cmd/pow.go.
	cmd.Execute()
}
