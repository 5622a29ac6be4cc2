package main

import (
	"log"
	"os"
)

func main() {
	logger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds)

	cli := newCommandLine()
	if err := cli.run(os.Args[1:]); err != nil {
		if err != errInvalidCPF {
			logger.Printf("error: %s\n", err)
		}
		os.Exit(1)
	}
}
