// Command seed provisions a fresh database: the six classification
// tables, a starter exercise catalogue covering every key the plan
// templates reference, and an initial admin account. Safe to run
// repeatedly; existing rows are left alone.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"fitcoach/coaching-api/internal/config"
	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"
	mongorepo "fitcoach/coaching-api/internal/repository/mongo"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var taxonomySeed = map[domain.TaxonomyKind][]domain.TaxonomyItem{
	domain.KindCategory: {
		{Name: "Strength", Displacement: true, MetabolicType: "anaerobic"},
		{Name: "Cardio", Displacement: true, MetabolicType: "aerobic"},
		{Name: "Mobility", MetabolicType: "aerobic"},
	},
	domain.KindMovementType: {
		{Name: "Push"}, {Name: "Pull"}, {Name: "Hinge"}, {Name: "Squat"}, {Name: "Carry"},
	},
	domain.KindMuscleGroup: {
		{Name: "Chest"}, {Name: "Back"}, {Name: "Legs"}, {Name: "Shoulders"}, {Name: "Arms"}, {Name: "Core"},
	},
	domain.KindEquipment: {
		{Name: "Barbell"}, {Name: "Dumbbell"}, {Name: "Machine"}, {Name: "Bodyweight"}, {Name: "Kettlebell"},
	},
	domain.KindPosition: {
		{Name: "Standing"}, {Name: "Seated"}, {Name: "Lying"}, {Name: "Hanging"},
	},
	domain.KindContractionType: {
		{Name: "Concentric"}, {Name: "Eccentric"}, {Name: "Isometric"},
	},
}

// exerciseSeed covers every name key the plan templates can ask for.
var exerciseSeed = []string{
	"Squat",
	"Bench Press",
	"Deadlift",
	"Overhead Press",
	"Pull Up",
	"Bicep Curl",
	"Tricep Extension",
	"Calf Raise",
	"Plank",
	"Dumbbell Press",
	"Dips",
	"Push Up",
	"Barbell Row",
	"Lat Pulldown",
	"Face Pull",
	"Leg Press",
	"Lunges",
	"Leg Curl",
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seedTaxonomies(ctx, appDB)
	seedExercises(ctx, appDB)
	seedAdmin(ctx, appDB)

	log.Println("Seeding completed.")
}

func seedTaxonomies(ctx context.Context, db *mongo.Database) {
	for _, kind := range domain.TaxonomyKinds {
		repo := mongorepo.NewMongoTaxonomyRepository(db, kind)
		for _, item := range taxonomySeed[kind] {
			item := item
			if _, err := repo.GetByName(ctx, item.Name); err == nil {
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				log.Fatalf("FATAL: Failed to check %s %q: %v", kind, item.Name, err)
			}
			if _, err := repo.Create(ctx, &item); err != nil && !errors.Is(err, repository.ErrDuplicate) {
				log.Fatalf("FATAL: Failed to seed %s %q: %v", kind, item.Name, err)
			}
			log.Printf("Seeded %s: %s", kind, item.Name)
		}
	}
}

func seedExercises(ctx context.Context, db *mongo.Database) {
	repo := mongorepo.NewMongoExerciseRepository(db)

	existing, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to list exercises: %v", err)
	}
	present := make(map[string]bool, len(existing))
	for i := range existing {
		present[existing[i].NameKey] = true
	}

	for _, name := range exerciseSeed {
		if present[domain.ExerciseNameKey(name)] {
			continue
		}
		// Seeded rows have no owning coach.
		if _, err := repo.Create(ctx, &domain.Exercise{Name: name}); err != nil {
			log.Fatalf("FATAL: Failed to seed exercise %q: %v", name, err)
		}
		log.Printf("Seeded exercise: %s", name)
	}
}

func seedAdmin(ctx context.Context, db *mongo.Database) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	repo := mongorepo.NewMongoUserRepository(db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Printf("Admin account %s already exists", email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("FATAL: Failed to check admin account: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("FATAL: Failed to hash admin password: %v", err)
	}

	admin := &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       domain.RoleAdmin,
		IsApproved:   true,
	}
	if _, err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("FATAL: Failed to create admin account: %v", err)
	}
	log.Printf("Created admin account: %s", email)
}
