package main

import "github.com/asmscope/asmscope/internal/cli"

func main() {
	cli.Execute()
}
