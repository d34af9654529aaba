package main

import "pbix-insight/src/handler/cli"

func main() {
	cli.Run()
}
