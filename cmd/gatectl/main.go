package main

import "github.com/bjaus/gate/internal/cli"

func main() {
	cli.Execute()
}
