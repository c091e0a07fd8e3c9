package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"craftstore/internal/archive"
	"craftstore/internal/models"
)

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := addUserCmd.String("username", "", "Username for the new user")
	email := addUserCmd.String("email", "", "Email for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-user' or 'list-users' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if *username == "" || *email == "" || *password == "" {
			fmt.Println("username, email and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		createUser(*username, *email, *password)
	case "list-users":
		listUsers()
	default:
		fmt.Println("expected 'add-user' or 'list-users' subcommand")
		os.Exit(1)
	}
}

func openArchive() archive.UserArchive {
	path := os.Getenv("USER_ARCHIVE_PATH")
	if path == "" {
		path = "./users.json"
	}
	if os.Getenv("USER_ARCHIVE") == "sqlite" {
		a, err := archive.NewSQLite(path)
		if err != nil {
			log.Fatalf("Failed to open user archive: %v", err)
		}
		return a
	}
	return archive.NewJSONFile(path)
}

// createUser appends a user to the archive; the server picks it up at
// the next boot.
func createUser(username, email, password string) {
	arch := openArchive()

	existing, err := arch.Load()
	if err != nil {
		log.Fatalf("Failed to read user archive: %v", err)
	}
	nextID := 1
	for _, u := range existing {
		if u.Username == username {
			log.Fatalf("User %q already exists in the archive", username)
		}
		if u.ID >= nextID {
			nextID = u.ID + 1
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		ID:        nextID,
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}
	if err := arch.Append(user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' created successfully.\n", username)
}

func listUsers() {
	arch := openArchive()
	users, err := arch.Load()
	if err != nil {
		log.Fatalf("Failed to read user archive: %v", err)
	}
	for _, u := range users {
		fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
}
