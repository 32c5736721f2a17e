package main

import "github.com/atdiar/entityui/cmd/entityui/cmd"

func main() {
	cmd.Execute()
}
