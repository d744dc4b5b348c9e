package main

import "github.com/tunebar/tunebar/internal/cli"

func main() {
	cli.Execute()
}
