// Package profile stores the personal details (name, image) linked to an account.
//
//	repo, err := profile.NewProfileRepository("file", profile.RepositoryConfig{DataDir: "./data"})
//	svc := profile.NewProfileService(repo)
//
//	p, err := svc.CreateProfile(ctx, profile.Profile{FirstName: "Ada", LastName: "Lovelace"})
//	p.Image = "ada.png"
//	p, err = svc.CreateProfile(ctx, p) // same ID, replaces the stored profile
package profile
