// Command adduser seeds the dashboard's JSON user store. There is no
// signup endpoint; every seat is created here.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"woodash/internal/auth"
)

func main() {
	file := flag.String("file", "users.json", "user store path")
	email := flag.String("email", "", "login email")
	name := flag.String("name", "", "display name")
	password := flag.String("password", "", "initial password")
	role := flag.String("role", "viewer", "role (admin or viewer)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: adduser -email a@b.mx -password secret [-name Ana] [-role admin]")
		os.Exit(2)
	}

	svc := auth.NewService(*file, "unused-for-registration", time.Hour)
	user, err := svc.Register(*email, *name, *password, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created user %d <%s> role=%s in %s\n", user.ID, user.Email, user.Role, *file)
}
