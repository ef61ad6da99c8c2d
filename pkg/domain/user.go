package domain

import (
	"fmt"
	"strings"
)

// MergeUser overlays incoming onto existing. Email is the record key and never
// changes; every other field is replaced only by a non-empty incoming value.
func MergeUser(existing, incoming User) User {
	out := existing
	overwrite := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overwrite(&out.Name, incoming.Name)
	if incoming.Role != "" {
		out.Role = incoming.Role
	}
	overwrite(&out.Branch, incoming.Branch)
	overwrite(&out.Year, incoming.Year)
	overwrite(&out.Institution, incoming.Institution)
	overwrite(&out.City, incoming.City)
	overwrite(&out.Contact, incoming.Contact)
	overwrite(&out.Password, incoming.Password)
	return out
}

// UpsertUser appends u when its email is unknown, otherwise merges it into the
// existing record in place. The input slice is not modified.
func UpsertUser(users []User, u User) ([]User, error) {
	if strings.TrimSpace(u.Email) == "" {
		return users, fmt.Errorf("%w: email is required", ErrValidation)
	}
	out := make([]User, 0, len(users)+1)
	found := false
	for _, existing := range users {
		if existing.Email == u.Email {
			existing = MergeUser(existing, u)
			found = true
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, u)
	}
	return out, nil
}

// Login finds the user with exactly this email. A non-empty password must
// also match the stored one.
func Login(users []User, email, password string) (User, error) {
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if password != "" && u.Password != password {
			continue
		}
		return u, nil
	}
	return User{}, ErrUserNotFound
}

func FindUser(users []User, email string) (User, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}
