// Command import_watch_history loads a JSON export of watch items into the
// local database, assigning every item to one user. The export format is the
// API list shape; legacy {season, episode} objects in watchedEpisodes are
// accepted and re-encoded as canonical tokens.
//
// Usage: import_watch_history <db_path> <export.json> <user_id>
package main

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"

	"reelog/internal/database"
	"reelog/models"
)

func main() {
	if len(os.Args) != 4 {
		log.Fatal("Usage: import_watch_history <db_path> <export.json> <user_id>")
	}
	dbPath, exportPath, userID := os.Args[1], os.Args[2], os.Args[3]

	data, err := os.ReadFile(exportPath)
	if err != nil {
		log.Fatalf("read export: %v", err)
	}

	var items []models.WatchItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Fatalf("parse export: %v", err)
	}

	db, err := database.NewDB(database.Config{DatabasePath: dbPath})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if user, err := db.Users.GetUserByID(userID); err != nil {
		log.Fatalf("look up user: %v", err)
	} else if user == nil {
		log.Fatalf("user %s does not exist", userID)
	}

	imported, skipped := 0, 0
	for i := range items {
		item := items[i]
		item.UserID = userID
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.SubType == "" {
			item.SubType = models.SubTypeLiveAction
		}

		if err := db.WatchItems.Insert(&item); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				skipped++
				log.Printf("skipping duplicate %q (tmdbId=%d)", item.Title, item.TmdbID)
				continue
			}
			log.Fatalf("insert %q: %v", item.Title, err)
		}
		imported++
	}

	log.Printf("done: %d imported, %d skipped", imported, skipped)
}
