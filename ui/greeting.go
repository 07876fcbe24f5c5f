package ui

import "time"

// greeting returns the salutation for the hour of t.
func greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 11:
		return "Selamat Pagi"
	case h < 15:
		return "Selamat Siang"
	case h < 19:
		return "Selamat Sore"
	default:
		return "Selamat Malam"
	}
}
