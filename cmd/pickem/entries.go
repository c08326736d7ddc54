package main

import (
	"fmt"
	"strconv"
	"strings"

	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
)

// parseEntries reads "Rider Name=position" arguments.
func parseEntries(args []string) ([]resultservice.ResultEntry, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one \"Rider=position\" entry is required")
	}
	entries := make([]resultservice.ResultEntry, 0, len(args))
	for _, arg := range args {
		name, pos, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("entry %q: expected \"Rider Name=position\"", arg)
		}
		n, err := strconv.Atoi(strings.TrimSpace(pos))
		if err != nil {
			return nil, fmt.Errorf("entry %q: position must be a number", arg)
		}
		entries = append(entries, resultservice.ResultEntry{Rider: name, Position: n})
	}
	return entries, nil
}
