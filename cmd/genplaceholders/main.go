package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"chosenoffset.com/plaza/internal/config"
	"chosenoffset.com/plaza/internal/placeholders"
)

func main() {
	out := flag.String("out", "assets", "output directory")
	size := flag.Int("size", int(config.Default().WorldSize), "world edge in pixels")
	flag.Parse()

	fmt.Println("Plaza Placeholder Graphics Generator")
	fmt.Println("====================================")
	fmt.Println()

	manifest, err := placeholders.Generate(*out, *size, placeholders.DefaultAvatars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	names := make([]string, 0, len(manifest))
	for name := range manifest {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := manifest[name]
		fmt.Printf("  %-6s %d frames\n", name, len(a.Refs()))
	}

	fmt.Println()
	fmt.Printf("Done! Serve %s next to the world server and point asset_base_url at it.\n", *out)
}
