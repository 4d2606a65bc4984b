// Command main runs the database seeder for Lumen.
package main

import (
	"flag"
	"log"

	"lumen/internal/config"
	"lumen/internal/database"
	"lumen/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numThreads := flag.Int("threads", 20, "Number of DM threads to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a named preset instead of flags")
	presetFile := flag.String("preset-file", "", "YAML file with preset definitions")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{NumUsers: *numUsers, NumPosts: *numPosts}

	if *preset != "" {
		presets, perr := seed.LoadPresets(*presetFile)
		if perr != nil {
			log.Fatalf("❌ Loading presets failed: %v", perr)
		}
		p, perr := seed.FindPreset(presets, *preset)
		if perr != nil {
			log.Fatalf("❌ %v", perr)
		}
		log.Printf("Applying preset: %s (%d users, %d posts, %d threads)\n",
			p.Name, p.Users, p.Posts, p.DMThreads)
		opts.SkipBcrypt = p.SkipBcrypt
		opts.MaxDays = p.MaxDays

		s := seed.NewSeeder(database.DB, opts)
		if *shouldClean {
			if cerr := s.ClearAll(); cerr != nil {
				log.Fatalf("❌ Cleanup failed: %v", cerr)
			}
		}
		if aerr := seed.Apply(s, p); aerr != nil {
			log.Fatalf("❌ Preset seeding failed: %v", aerr)
		}
	} else {
		log.Printf("Target: %d users, %d posts, %d threads, clean=%v\n",
			*numUsers, *numPosts, *numThreads, *shouldClean)

		s := seed.NewSeeder(database.DB, opts)
		if *shouldClean {
			if cerr := s.ClearAll(); cerr != nil {
				log.Fatalf("❌ Cleanup failed: %v", cerr)
			}
		}
		users, serr := s.SeedSocialMesh(*numUsers)
		if serr != nil {
			log.Fatalf("❌ User seeding failed: %v", serr)
		}
		if _, serr = s.SeedEngagement(users, *numPosts); serr != nil {
			log.Fatalf("❌ Engagement seeding failed: %v", serr)
		}
		if serr = s.SeedConversations(users, *numThreads); serr != nil {
			log.Fatalf("❌ Conversation seeding failed: %v", serr)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
