package main

import (
	"strings"
	"time"
)

// joinArgs lets multi-word values such as "First Quarter" go unquoted.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func currentYear() int {
	return time.Now().Year()
}
