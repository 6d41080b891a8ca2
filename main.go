package main

import "github.com/nekoprojects/nekobot/cmd"

func main() {
	cmd.Execute()
}
