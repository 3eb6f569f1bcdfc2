// Package main is the entry point for the groundwork CLI.
package main

func main() {
	Execute()
}
