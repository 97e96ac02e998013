package main

import "github.com/versync-project/versync/internal/cli"

func main() {
	cli.Execute()
}
