package main

import "citerag/internal/cli"

func main() {
	cli.Execute()
}
