package main

import "github.com/iburimskiy/ambient-vortex/cmd"

func main() {
	cmd.Execute()
}
