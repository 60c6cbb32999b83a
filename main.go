package main

import (
	"github.com/SaminMaharjan/coughai/cmd"
)

func main() {
	cmd.Execute()
}
