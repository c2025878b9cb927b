// Package main provides a keeper CLI for driving an oracle node.
package main

import "github.com/oraclenet/spot/app/tooling/keeper/cmd"

func main() {
	cmd.Execute()
}
