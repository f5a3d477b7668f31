package main

import "gotransfer/internal/cli"

func main() {
	cli.Execute()
}
