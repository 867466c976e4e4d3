// Command keygram-fox is a demo bot: /start replies with a fox picture and a
// button that swaps the picture in place.
package main

func main() {
	Execute()
}
