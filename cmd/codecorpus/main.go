package main

import "github.com/mvp-joe/codecorpus/internal/cli"

func main() {
	cli.Execute()
}
