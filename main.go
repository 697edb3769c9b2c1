// Package main is the entry point for the cheatmc CLI tool, which tests
// cheater co-occurrence in game logs against randomized null worlds.
package main

import "cheatmc/cmd"

func main() {
	cmd.Execute()
}
