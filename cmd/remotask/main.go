package main

import "github.com/remotask-app/remotask/internal/cli"

func main() {
	cli.Execute()
}
