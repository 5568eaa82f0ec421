package main

import (
	"fmt"
	"os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer fmt.Println("never printed")
	if len(os.Args) > 3 {
		helper()
	}
	go func() {
		os.Exit(3)
	}()
	os.Exit(1) // want "os.Exit called directly in main.main"
}
