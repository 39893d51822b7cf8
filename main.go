package main

import "github.com/naka-gawa/github-trends/cmd"

func main() {
	cmd.Execute()
}
