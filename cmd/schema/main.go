// Command schema writes JSON schema of the newsbrief configuration, used by go:generate in pkg/config
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/umputun/newsbrief/pkg/config"
)

func main() {
	path := "schema.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if err := writeSchema(path); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	fmt.Printf("schema written to %s\n", path)
}

// writeSchema reflects config.Config and stores the indented schema with a trailing newline
func writeSchema(path string) error {
	data, err := json.MarshalIndent(config.GenerateSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // schema is committed to the repo
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
