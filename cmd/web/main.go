package main

import "mediabridge/internal/app"

func main() {
	app.Run()
}
