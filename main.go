package main

import "github.com/Delta-in-hub/FuseLLM/cmd"

func main() {
	cmd.Execute()
}
