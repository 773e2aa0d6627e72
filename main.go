package main

import "github.com/caedis/vsmod-updater/cmd"

func main() {
	cmd.Execute()
}
