package main

import "github.com/sandeepkv93/mytodo/internal/cli"

func main() {
	cli.Execute()
}
