package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
	"golang.org/x/term"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow asks for a TMDB API key until one is accepted, then saves it
func runSetupFlow(ctx context.Context, cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Reel!")
	fmt.Println()
	fmt.Println("Reel needs a TMDB API key: https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		fmt.Print("Enter your TMDB API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		key := strings.TrimSpace(string(raw))
		if key == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		cfg.TMDB.APIKey = key
		err = verifyKeyWithSpinner(ctx, cfg)
		if errors.Is(err, domain.ErrAuthFailed) {
			fmt.Println("✗ TMDB rejected that key. Please try again.")
			fmt.Println()
			continue
		}
		if err != nil {
			return fmt.Errorf("could not verify API key: %w", err)
		}
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Printf("  %s\n", cfg.File)
	fmt.Println()
	fmt.Println("Run reel again to start browsing.")
	return nil
}

// verifyKeyWithSpinner fetches one listing page with the configured key
func verifyKeyWithSpinner(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := newClient(cfg, logger)
	resultCh := make(chan error, 1)
	go func() {
		_, _, err := client.ListMovies(ctx, domain.CategoryPopular, 1)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking API key...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err == nil {
				fmt.Println("✓ API key accepted")
			}
			return err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return errors.New("verification timed out")
		}
	}
}
