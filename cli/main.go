// Command guruchat-cli talks to a guruchat server from the terminal.
package main

func main() {
	Execute()
}
