package main

import "github.com/idilsaglam/stories/internal/cli"

// `go run .` behaves like cmd/stories.
func main() {
	cli.Main()
}
