package main

import "nathanbeddoewebdev/chatact/cmd"

func main() {
	cmd.Execute()
}
