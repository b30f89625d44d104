package library

import (
	"strconv"
)

// NextID returns one more than the largest numeric ID in ids, or start when
// none of them are numeric. Non-numeric IDs such as "admin" are ignored.
func NextID(ids []string, start int) string {
	highest := 0
	found := false
	for _, id := range ids {
		if !isDigits(id) {
			continue
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if !found || n > highest {
			highest = n
			found = true
		}
	}

	if !found {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(highest + 1)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
