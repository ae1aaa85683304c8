// ABOUTME: Interactive prompts for commands run from a terminal
// ABOUTME: Built on huh forms; tests swap the package-level prompt functions

package cmd

import (
	"github.com/charmbracelet/huh"
)

// promptCredentials asks for whichever of username and password is empty
var promptCredentials = func(username, password *string) error {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Usuário").
			Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Senha").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// promptConfirm asks a yes/no question defaulting to no
var promptConfirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Sim").
			Negative("Não").
			Value(&ok),
	)).Run()
	return ok, err
}

// confirmed returns true when --yes was given or the user agrees
func confirmed(yes bool, title string) bool {
	if yes {
		return true
	}
	ok, err := promptConfirm(title)
	return err == nil && ok
}
