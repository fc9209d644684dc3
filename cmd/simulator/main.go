package main

import (
	"flag"
	"fmt"
	"os"
)

type catalogEntry struct {
	id    int64
	title string
}

// Popular titles with their TMDB ids, so seeded records render with artwork.
var catalog = []catalogEntry{
	{id: 603, title: "The Matrix"},
	{id: 680, title: "Pulp Fiction"},
	{id: 27205, title: "Inception"},
	{id: 157336, title: "Interstellar"},
	{id: 438631, title: "Dune"},
	{id: 129, title: "Spirited Away"},
	{id: 496243, title: "Parasite"},
	{id: 949, title: "Heat"},
}

var statuses = []string{"watched", "watching", "not_started", "will_not_watch"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "full":
		fullCmd(apiURL, args)
	case "comment":
		commentCmd(apiURL, args)
	case "matches":
		matchesCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Movie Night Simulator - Development tool for seeding ratings and comments

USAGE:
  simulator <command> [options]

COMMANDS:
  full      Register viewers, rate the sample catalog, comment, and show matches
  comment   Post comments on a movie from fresh viewers
  matches   List movies two users have both watched
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Register 4 viewers who rate every catalog movie
  simulator full

  # Register 8 viewers who rate the first 3 catalog movies
  simulator full --count=8 --movies=3

  # Have 3 viewers comment on Inception
  simulator comment --movie=27205 --count=3

  # Compare two users
  simulator matches --user=<uuid> --friend=<uuid>`)
}

func fullCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	count := fs.Int("count", 4, "Number of viewers to create")
	movies := fs.Int("movies", len(catalog), "Number of catalog movies each viewer rates")
	fs.Parse(args)

	if *count < 1 || *count > 20 {
		fmt.Println("Error: --count must be between 1 and 20")
		os.Exit(1)
	}
	if *movies < 1 || *movies > len(catalog) {
		fmt.Printf("Error: --movies must be between 1 and %d\n", len(catalog))
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Movie Night Simulator: Full Flow ===")
	fmt.Println()

	// 1. Register viewers
	fmt.Printf("Registering %d viewers:\n", *count)
	users := make([]*User, 0, *count)
	for i := 0; i < *count; i++ {
		user, err := client.RegisterUser(fmt.Sprintf("Viewer%d", i+1))
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i+1, *count, err)
			os.Exit(1)
		}
		users = append(users, user)
		fmt.Printf("  [%d/%d] %s (%s)\n", i+1, *count, user.Name, user.ID)
	}

	// 2. Rate movies with varied scores and statuses
	fmt.Println()
	fmt.Print("Rating movies... ")
	for i, user := range users {
		for j, movie := range catalog[:*movies] {
			rating := (i*3 + j*7) % 11
			status := statuses[(i+j)%len(statuses)]
			if _, err := client.RateMovie(user, movie.id, movie.title, rating, status); err != nil {
				fmt.Printf("FAILED\n  Error: %v\n", err)
				os.Exit(1)
			}
		}
	}
	fmt.Printf("OK (%d records)\n", len(users)*(*movies))

	// 3. First viewer comments on the first movie
	first := catalog[0]
	fmt.Printf("Commenting on %s... ", first.title)
	if err := client.AddComment(users[0], first.id, first.title, "Seeded comment, feel free to delete"); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	// Print summary
	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  CATALOG SEEDED")
	fmt.Println("=========================================")
	fmt.Println()
	for _, user := range users {
		fmt.Printf("  %-16s token: %s...\n", user.Name, user.AccessToken[:16])
	}

	if len(users) > 1 {
		matches, err := client.GetMatches(users[0].ID, users[1].ID)
		if err != nil {
			fmt.Printf("\nFailed to fetch matches: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Printf("  %s and %s both watched %d movie(s)\n", users[0].Name, users[1].Name, len(matches))
		for _, m := range matches {
			fmt.Printf("    - %s\n", m.MovieTitle)
		}
	}
	fmt.Println()
}

func commentCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	movieID := fs.Int64("movie", 0, "Movie id to comment on (required)")
	title := fs.String("title", "", "Movie title stored on new records")
	count := fs.Int("count", 3, "Number of viewers who comment")
	fs.Parse(args)

	if *movieID <= 0 {
		fmt.Println("Error: --movie is required")
		fmt.Println("\nUsage: simulator comment --movie=27205 [--count=3]")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Printf("Adding %d comments to movie %d...\n\n", *count, *movieID)

	for i := 0; i < *count; i++ {
		user, err := client.RegisterUser(fmt.Sprintf("Critic%d", i+1))
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to create user: %v\n", i+1, *count, err)
			continue
		}

		text := fmt.Sprintf("Comment %d from %s", i+1, user.Name)
		if err := client.AddComment(user, *movieID, *title, text); err != nil {
			fmt.Printf("  [%d/%d] FAILED to comment: %v\n", i+1, *count, err)
			continue
		}

		fmt.Printf("  [%d/%d] %s commented\n", i+1, *count, user.Name)
	}

	comments, err := client.GetComments(*movieID)
	if err != nil {
		fmt.Printf("\nFailed to fetch comments: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done! Movie %d has %d comment(s)\n", *movieID, len(comments))
}

func matchesCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	userID := fs.String("user", "", "User id (required)")
	friendID := fs.String("friend", "", "Friend user id (required)")
	fs.Parse(args)

	if *userID == "" || *friendID == "" {
		fmt.Println("Error: --user and --friend are required")
		fmt.Println("\nUsage: simulator matches --user=<uuid> --friend=<uuid>")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	matches, err := client.GetMatches(*userID, *friendID)
	if err != nil {
		fmt.Printf("Failed to fetch matches: %v\n", err)
		os.Exit(1)
	}

	if len(matches) == 0 {
		fmt.Println("No movies watched by both users.")
		return
	}

	fmt.Printf("%d movie(s) watched by both users:\n", len(matches))
	for _, m := range matches {
		rating := "-"
		if m.Rating != nil {
			rating = fmt.Sprintf("%d/10", *m.Rating)
		}
		fmt.Printf("  %-24s %s\n", m.MovieTitle, rating)
	}
}
