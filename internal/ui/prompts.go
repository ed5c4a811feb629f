package ui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrNonInteractive is returned by prompts in non-interactive mode
	ErrNonInteractive = errors.New("input required but running non-interactively")
	// ErrCancelled is returned when the user interrupts a prompt with Ctrl+C
	ErrCancelled = errors.New("cancelled by user")
)

// ask runs one survey prompt unless input is disabled
func (u *UI) ask(p survey.Prompt, response any, opts ...survey.AskOpt) error {
	if u.nonInteractive {
		return ErrNonInteractive
	}
	err := survey.AskOne(p, response, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCancelled
	}
	return err
}

func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	var yes bool
	err := u.ask(&survey.Confirm{Message: prompt, Default: defaultYes}, &yes)
	return yes, err
}

// PromptPassword asks for a non-empty secret without echoing it
func (u *UI) PromptPassword(prompt string) (string, error) {
	var secret string
	err := u.ask(&survey.Password{Message: prompt}, &secret, survey.WithValidator(survey.Required))
	return secret, err
}

// PromptSelect returns the index of the chosen option
func (u *UI) PromptSelect(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("nothing to select for %q", prompt)
	}

	index := -1
	if err := u.ask(&survey.Select{Message: prompt, Options: options}, &index); err != nil {
		return -1, err
	}
	if index < 0 || index >= len(options) {
		return -1, fmt.Errorf("selected option %d out of range", index)
	}
	return index, nil
}

func (u *UI) PromptInput(prompt, defaultValue string) (string, error) {
	var answer string
	err := u.ask(&survey.Input{Message: prompt, Default: defaultValue}, &answer)
	return answer, err
}
