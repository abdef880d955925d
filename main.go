package main

import "github.com/KaramelBytes/solarsite-cli/cmd"

func main() {
	cmd.Execute()
}
