package main

import "superpixel-otsu/internal/cli"

func main() {
	cli.Execute()
}
