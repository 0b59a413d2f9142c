package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewOnboardingForm asks for the display name and an optional API credential.
func NewOnboardingForm(fm *OnboardingFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to habitual").
				Description("Build habits by deciding who you want to become."),
			huh.NewInput().
				Title("What should we call you?").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("API credential (optional)").
				Description("Enables live habit suggestions. Leave empty to use built-in ideas.").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Credential),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewIdentityForm asks for the identity to build and optional personal context.
func NewIdentityForm(fm *IdentityFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Who do you want to become?").
				Description("e.g. Runner, Writer, Reader").
				Value(&fm.Identity).
				Validate(required("identity")),
			huh.NewText().
				Title("Anything we should know? (optional)").
				Description("Schedule, constraints, what has worked before.").
				Lines(3).
				Value(&fm.Context),
		),
	).WithTheme(huh.ThemeDracula())
}

func (m *Model) startOnboarding() {
	m.onboardingForm = &OnboardingFormModel{}
	m.form = NewOnboardingForm(m.onboardingForm)
	m.formError = ""
	m.state = constants.StateOnboarding
}

func (m *Model) startNewIdentity() {
	m.identityForm = &IdentityFormModel{}
	m.form = NewIdentityForm(m.identityForm)
	m.formError = ""
	m.previousState = m.state
	m.state = constants.StateNewIdentity
}
