package main

import "github.com/tsvkit/csv2tsv/internal/cli"

func main() {
	cli.Execute()
}
