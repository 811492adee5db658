package main

import "page-store/cmd"

func main() {
	cmd.Execute()
}
