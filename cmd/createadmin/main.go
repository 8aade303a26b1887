// Command createadmin provisions an administrator account interactively.
// It prompts for the admin email and password, hashes the password, and
// upserts the account, so rerunning it resets an existing admin's
// credentials instead of failing.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aquavo/authcore/internal/common"
	"github.com/aquavo/authcore/internal/cryptox"
	"github.com/aquavo/authcore/internal/server/config"
	"github.com/aquavo/authcore/internal/server/shared/db"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {

	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Enter admin email")

	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Println("Enter admin name")
	fullName, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	fullName = strings.TrimSpace(fullName)

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		return fmt.Errorf("password is required")
	}

	hash, err := cryptox.HashPassword(string(password))
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	rm, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer rm.Close()

	if err := rm.Users(rm.Conn()).UpsertAdmin(ctx, email, hash, fullName); err != nil {
		return fmt.Errorf("error saving admin: %w", err)
	}

	fmt.Printf("Admin %s created\n", email)
	return nil
}
