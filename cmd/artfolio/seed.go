package main

import (
	"context"
	"errors"
	"fmt"

	"artfolio/internal/database"
	"artfolio/internal/domain"
	"artfolio/internal/modules/auth"
	"artfolio/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminUsername string
	Demo          bool
}

var seedOpts seedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create an admin account and optional demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return seed(cmd.Context(), db, seedOpts)
	},
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedOpts.AdminEmail, "admin-email", "admin@artfolio.local", "admin email")
	f.StringVar(&seedOpts.AdminPassword, "admin-password", "", "admin password (required)")
	f.StringVar(&seedOpts.AdminUsername, "admin-username", "admin", "admin username")
	f.BoolVar(&seedOpts.Demo, "demo", false, "also create sample artists, visitors and artworks")
	_ = seedCmd.MarkFlagRequired("admin-password")
}

// seed is safe to run repeatedly: existing accounts are left untouched and
// demo artworks are only created for newly inserted artists.
func seed(ctx context.Context, db *gorm.DB, opts seedOptions) error {
	if len(opts.AdminPassword) < 6 {
		return errors.New("admin password must be at least 6 characters")
	}

	users := repository.NewUserRepository(db)
	artworks := repository.NewArtworkRepository(db)

	if _, _, err := ensureUser(ctx, users, domain.User{
		Username: opts.AdminUsername,
		Email:    opts.AdminEmail,
		Role:     domain.RoleAdmin,
	}, opts.AdminPassword); err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	if !opts.Demo {
		return nil
	}

	for _, a := range demoArtists {
		u, created, err := ensureUser(ctx, users, a.user, "artist123")
		if err != nil {
			return fmt.Errorf("artist %s: %w", a.user.Username, err)
		}
		if !created {
			continue
		}
		for _, w := range a.works {
			w.ArtistID = u.ID
			if err := artworks.Create(ctx, &w); err != nil {
				return fmt.Errorf("artwork %q: %w", w.Title, err)
			}
		}
	}
	for _, v := range demoVisitors {
		if _, _, err := ensureUser(ctx, users, v, "visitor123"); err != nil {
			return fmt.Errorf("visitor %s: %w", v.Username, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"artists":  len(demoArtists),
		"visitors": len(demoVisitors),
	}).Info("demo data seeded")
	return nil
}

func ensureUser(ctx context.Context, users *repository.UserRepository, u domain.User, password string) (*domain.User, bool, error) {
	existing, err := users.GetByLogin(ctx, u.Email)
	if err == nil {
		logrus.WithField("email", u.Email).Info("user already exists, skipping")
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	hash, err := auth.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	u.PasswordHash = hash
	if err := users.Create(ctx, &u); err != nil {
		return nil, false, err
	}
	logrus.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("user created")
	return &u, true, nil
}

type demoArtist struct {
	user  domain.User
	works []domain.Artwork
}

var demoArtists = []demoArtist{
	{
		user: domain.User{
			Username:       "mira_ink",
			Email:          "mira@artfolio.local",
			Role:           domain.RoleArtist,
			Bio:            "Ink and watercolor, mostly coastlines.",
			CommissionOpen: true,
		},
		works: []domain.Artwork{
			{Title: "Harbor at Dusk", Description: "Watercolor on cotton paper.", Price: 180, Category: "painting",
				Tags: []string{"sea", "watercolor"}, ImageURL: "https://picsum.photos/seed/harbor/800/600", IsForSale: true},
			{Title: "Low Tide", Description: "Ink study.", Price: 90, Category: "drawing",
				Tags: []string{"ink", "sea"}, ImageURL: "https://picsum.photos/seed/tide/800/600", IsForSale: true},
		},
	},
	{
		user: domain.User{
			Username: "teo_pixels",
			Email:    "teo@artfolio.local",
			Role:     domain.RoleArtist,
			Bio:      "Digital illustration and pixel art.",
		},
		works: []domain.Artwork{
			{Title: "Neon Alley", Description: "Digital, 4K print available.", Price: 45, Category: "digital",
				Tags: []string{"city", "night"}, ImageURL: "https://picsum.photos/seed/neon/800/600", IsForSale: true},
			{Title: "Sprite Sheet #3", Description: "Personal project, not for sale.", Category: "digital",
				Tags: []string{"pixel"}, ImageURL: "https://picsum.photos/seed/sprite/800/600"},
		},
	},
}

var demoVisitors = []domain.User{
	{Username: "sam_collects", Email: "sam@artfolio.local", Role: domain.RoleVisitor},
	{Username: "lena_v", Email: "lena@artfolio.local", Role: domain.RoleVisitor},
}
