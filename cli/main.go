package main

import "studentkeep/cli/cmd"

func main() {
	cmd.Execute()
}
