package filter

import "strings"

// UrgentMarkers flag a listing as urgent when found in its deadline text.
var UrgentMarkers = []string{"急募", "緊急", "即日", "至急"}

func IsUrgent(deadline string) bool {
	for _, marker := range UrgentMarkers {
		if strings.Contains(deadline, marker) {
			return true
		}
	}
	return false
}
