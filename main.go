package main

import "github.com/kamal-hamza/webopt/cmd"

func main() {
	cmd.Execute()
}
