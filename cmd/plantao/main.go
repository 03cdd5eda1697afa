package main

import "plantao/internal/cli"

func main() {
	cli.Execute()
}
