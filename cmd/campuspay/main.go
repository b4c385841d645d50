package main

import "github.com/LeJamon/campuspay/internal/cli"

func main() {
	cli.Execute()
}
