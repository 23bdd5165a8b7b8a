package main

import sys "os"

func main() {
	sys.Exit(0) // want "avoid direct os.Exit call in main function of main package"
}
