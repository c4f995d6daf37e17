// Package main is the entry point for the nhldata CLI tool, which fetches
// NHL play-by-play data and reconstructs per-event lineups and context.
package main

import "github.com/twinfield10/NHL-Data/cmd"

func main() {
	cmd.Execute()
}
