package main

import "github.com/upenergia/asset-management/cmd"

func main() {
	cmd.Execute()
}
