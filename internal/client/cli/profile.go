package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/infokelas/kelascli/internal/client/api"
)

func (a *App) showProfile(ctx context.Context) {
	user, err := a.auth.Profile(ctx)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load your profile."))
		return
	}
	fmt.Fprintf(a.out, "Name:  %s\nNIM:   %s\nEmail: %s\nPhone: %s\n", user.Name, user.NIM, user.Email, user.Phone)
}

// updateProfile prompts for the editable fields; empty input keeps the
// current value. The service merges the backend's response into the stored
// snapshot so the next bootstrap shows fresh data.
func (a *App) updateProfile(ctx context.Context) {
	current, err := a.auth.Profile(ctx)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load your profile."))
		return
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", current.Name), a.out)
	if err != nil {
		a.quit = true
		return
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", current.Email), a.out)
	if err != nil {
		a.quit = true
		return
	}
	phone, err := getSimpleText(a.reader, fmt.Sprintf("Phone [%s]", current.Phone), a.out)
	if err != nil {
		a.quit = true
		return
	}
	avatarPath, err := getSimpleText(a.reader, "Avatar file (empty to keep)", a.out)
	if err != nil {
		a.quit = true
		return
	}

	update := api.ProfileUpdate{
		Name:  orDefault(name, current.Name),
		Email: orDefault(email, current.Email),
		Phone: orDefault(phone, current.Phone),
	}
	if avatarPath != "" {
		f, err := os.Open(avatarPath)
		if err != nil {
			fmt.Fprintf(a.out, "Cannot open %s: %v\n", avatarPath, err)
			return
		}
		defer f.Close()
		update.Avatar = f
		update.AvatarFilename = filepath.Base(avatarPath)
	}

	user, err := a.auth.UpdateProfile(ctx, update)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Profile update failed."))
		return
	}
	a.userName = user.Name
	fmt.Fprintln(a.out, "Profile updated.")
}

func (a *App) updatePassword(ctx context.Context) {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		a.quit = true
		return
	}
	defer wipe(current)

	next, err := getPassword("New password", a.out)
	if err != nil {
		a.quit = true
		return
	}
	defer wipe(next)

	if err := a.auth.UpdatePassword(ctx, string(current), string(next)); err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Password change failed."))
		return
	}
	fmt.Fprintln(a.out, "Password changed.")
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
