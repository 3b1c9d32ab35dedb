// Package main provides the CLI entrypoint for flashtimer.
package main

func main() {
	Execute()
}
