package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&ok),
		),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func askConfirm(deps *commandDeps, title, description string) (bool, error) {
	if deps.confirm == nil {
		return false, usageErrorf("confirmation required; pass --yes")
	}
	ok, err := deps.confirm(title, description)
	if err != nil {
		return false, usageErrorf("confirmation failed (%v); pass --yes to skip the prompt", err)
	}
	return ok, nil
}
