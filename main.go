package main

import "gqlcheck/cli"

func main() {
	cli.Execute()
}
