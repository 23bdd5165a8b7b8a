package main

import (
	"fmt"
	"os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer fmt.Println("skipped")
	if len(os.Args) > 2 {
		helper()
	}
	func() {
		os.Exit(3) // want "avoid direct os.Exit call in main function of main package"
	}()
	os.Exit(1) // want "avoid direct os.Exit call in main function of main package"
}
