package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"uimage/internal/client"
)

func main() {
	serverURL := flag.String("server", "http://127.0.0.1:8080", "Base URL of the image server")
	filename := flag.String("file", "", "Image to upload (.jpg or .png)")
	flag.Parse()

	if *filename == "" {
		fmt.Println("Usage: client -server [url] -file [image]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*serverURL)
	c.Progress = os.Stdout

	names, err := c.Upload(ctx, *filename)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	for _, name := range names {
		fmt.Printf("Stored %s\n  view: %s\n  raw:  %s\n", name, c.ViewURL(name), c.RawURL(name))
	}
}
