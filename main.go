package main

import (
	"github.com/wanderly/concierge/cmd"
)

func main() {
	cmd.Execute()
}
