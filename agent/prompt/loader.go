package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed template/intake.txt
var intakeRaw string

// Intake returns the base system prompt for the intake assistant.
// Safe to call concurrently; the embed is compile-time.
func Intake() string {
	return strings.TrimSpace(intakeRaw)
}

// ForSection appends the active workflow section to the base prompt so the
// model keeps its questions focused on the topic the client is currently in.
func ForSection(section string) string {
	if section == "" {
		return Intake()
	}
	return fmt.Sprintf("%s\n\nThe client is currently working on the %s section. Focus your questions there unless they clearly want to move on.", Intake(), section)
}
