package cmd

import (
	"github.com/manifoldco/promptui"
)

// confirm asks a y/N question; anything but an explicit yes is a no.
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}
