// Package main is the entry point for the nbpreview CLI.
package main

import "github.com/basecamp/nbpreview/internal/cli"

func main() {
	cli.Execute()
}
