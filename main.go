package main

import "github.com/EsriDevEvents/publish-webtool/cmd"

func main() {
	cmd.Execute()
}
