package main

import "github.com/binref/idabuild/cmd/idabuild/internal"

func main() {
	internal.Execute()
}
