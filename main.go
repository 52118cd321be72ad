package main

import "github.com/CraigKelly/logitmc/cmd"

func main() {
	cmd.Execute()
}
