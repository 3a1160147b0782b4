// Package main provides a tool to seed the database with demo data.
//
// It creates a handful of users, public and private memories, and connections
// between them, for exercising the feed, search, and connection endpoints
// during development.
//
// Usage:
//
//	DATA_PATH=~/RememberThis/data go run ./cmd/seed
//	go run ./cmd/seed --data-path ~/RememberThis/data --wipe
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/id"
	"github.com/rememberthis/remember-server/internal/store"
	"github.com/rememberthis/remember-server/internal/store/sqlite"
)

var (
	dataPathFlag = flag.String("data-path", "", "Base path for persistent data (default: $DATA_PATH or ~/RememberThis/data)")
	wipe         = flag.Bool("wipe", false, "Delete existing demo users before seeding")
)

type seedUser struct {
	externalID string
	email      string
	firstName  string
	lastName   string
}

type seedMemory struct {
	title       string
	description string
	category    domain.Category
	timeframe   string
	tags        []string
	isPublic    bool
}

var demoUsers = []seedUser{
	{externalID: "demo_amara", email: "amara@example.com", firstName: "Amara", lastName: "Okafor"},
	{externalID: "demo_jules", email: "jules@example.com", firstName: "Jules", lastName: "Laurent"},
	{externalID: "demo_priya", email: "priya@example.com", firstName: "Priya", lastName: "Sharma"},
}

var demoMemories = map[string][]seedMemory{
	"demo_amara": {
		{
			title:       "Grandma's kitchen on Sunday mornings",
			description: "The smell of jollof rice and the radio playing highlife while she told stories about Lagos in the sixties.",
			category:    domain.CategoryMoment,
			timeframe:   "Childhood, early 2000s",
			tags:        []string{"family", "food", "music"},
			isPublic:    true,
		},
		{
			title:       "The lighthouse at Whitby",
			description: "We climbed the 199 steps in the rain and the whole harbour opened up below us.",
			category:    domain.CategoryPlace,
			timeframe:   "Summer 2019",
			tags:        []string{"travel", "coast"},
			isPublic:    true,
		},
	},
	"demo_jules": {
		{
			title:       "Mr. Castellano, my first music teacher",
			description: "He let me stay after class to mess around on the old upright piano. I owe him every song I ever wrote.",
			category:    domain.CategoryPerson,
			timeframe:   "1998-2003",
			tags:        []string{"music", "school"},
			isPublic:    true,
		},
		{
			title:       "The green bicycle",
			description: "A hand-me-down with a bent mudguard and the loudest bell on the street.",
			category:    domain.CategoryThing,
			tags:        []string{"childhood"},
			isPublic:    false,
		},
	},
	"demo_priya": {
		{
			title:       "Monsoon from the balcony",
			description: "Watching the first rains hit the mango tree while chai went cold in my hands.",
			category:    domain.CategoryMoment,
			timeframe:   "Every June",
			tags:        []string{"rain", "home"},
			isPublic:    true,
		},
	},
}

func main() {
	flag.Parse()

	dataPath := *dataPathFlag
	if dataPath == "" {
		dataPath = os.Getenv("DATA_PATH")
	}
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/RememberThis/data")
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	dbPath := filepath.Join(dataPath, "remember.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if *wipe {
		wipeDemoUsers(ctx, s)
	}

	users := make(map[string]*domain.User)
	for _, su := range demoUsers {
		user, err := ensureUser(ctx, s, su)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", su.externalID, err)
		}
		users[su.externalID] = user
		fmt.Printf("User ready: %s (%s)\n", user.DisplayName(), user.ID)
	}

	memories := make(map[string][]*domain.Memory)
	for externalID, specs := range demoMemories {
		owner := users[externalID]
		for _, sm := range specs {
			memory, err := createMemory(ctx, s, owner, sm)
			if err != nil {
				log.Fatalf("Failed to seed memory %q: %v", sm.title, err)
			}
			memories[externalID] = append(memories[externalID], memory)
			visibility := "public"
			if !memory.IsPublic {
				visibility = "private"
			}
			fmt.Printf("  Memory created: %q (%s, %s)\n", memory.Title, memory.Category, visibility)
		}
	}

	// Cross-connect: everyone remembers the first public memory of each
	// other user.
	connections := 0
	for _, su := range demoUsers {
		viewer := users[su.externalID]
		for otherExternalID, owned := range memories {
			if otherExternalID == su.externalID {
				continue
			}
			for _, memory := range owned {
				if !memory.IsPublic {
					continue
				}
				if err := createConnection(ctx, s, viewer, memory); err != nil {
					log.Fatalf("Failed to seed connection: %v", err)
				}
				connections++
				break
			}
		}
	}

	fmt.Printf("\nSeeded %d users, %d memories, %d connections\n",
		len(users), countMemories(memories), connections)
}

func ensureUser(ctx context.Context, s *sqlite.Store, su seedUser) (*domain.User, error) {
	if existing, err := s.GetUserByExternalID(ctx, su.externalID); err == nil {
		return existing, nil
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:         id.MustGenerate(id.PrefixUser),
		ExternalID: su.externalID,
		Email:      su.email,
		FirstName:  su.firstName,
		LastName:   su.lastName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func createMemory(ctx context.Context, s *sqlite.Store, owner *domain.User, sm seedMemory) (*domain.Memory, error) {
	now := time.Now().UTC()
	memory := &domain.Memory{
		ID:             id.MustGenerate(id.PrefixMemory),
		UserID:         owner.ID,
		ExternalUserID: owner.ExternalID,
		Title:          sm.title,
		Description:    sm.description,
		Category:       sm.category,
		Timeframe:      sm.timeframe,
		Tags:           sm.tags,
		IsPublic:       sm.isPublic,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.CreateMemory(ctx, memory); err != nil {
		return nil, err
	}
	return memory, nil
}

func createConnection(ctx context.Context, s *sqlite.Store, viewer *domain.User, memory *domain.Memory) error {
	conn := &domain.MemoryConnection{
		ID:             id.MustGenerate(id.PrefixConnection),
		MemoryID:       memory.ID,
		UserID:         viewer.ID,
		ExternalUserID: viewer.ExternalID,
		ConnectionType: domain.ConnectionRemember,
		Note:           "This brought something back for me too.",
		CreatedAt:      time.Now().UTC(),
	}
	err := s.CreateConnection(ctx, conn)
	if err != nil && errors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	return err
}

func wipeDemoUsers(ctx context.Context, s *sqlite.Store) {
	for _, su := range demoUsers {
		user, err := s.GetUserByExternalID(ctx, su.externalID)
		if err != nil {
			continue
		}
		if err := s.DeleteUser(ctx, user.ID); err != nil {
			log.Printf("Failed to delete user %s: %v", su.externalID, err)
			continue
		}
		fmt.Printf("Deleted existing demo user %s\n", su.externalID)
	}
}

func countMemories(m map[string][]*domain.Memory) int {
	total := 0
	for _, list := range m {
		total += len(list)
	}
	return total
}
