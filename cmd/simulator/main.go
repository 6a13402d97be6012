package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := "http://localhost:5000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(apiURL, args)
	case "live":
		liveCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Counter Simulator - Development tool for filling the active users list

USAGE:
  simulator <command> [options]

COMMANDS:
  populate  Register fake users and run a burst of random counter operations
  live      Register fake users that keep clicking and heartbeating until stopped
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:5000)

EXAMPLES:
  # Five users with ten random operations each
  simulator populate --count=5 --ops=10

  # Three users that stay online for two minutes
  simulator live --count=3 --duration=2m --interval=20s`)
}

type fakeUser struct {
	user    *User
	token   string
	counter *Counter
}

func registerUsers(client *APIClient, count int) []*fakeUser {
	fmt.Printf("Registering %d users:\n", count)

	users := make([]*fakeUser, 0, count)
	for i := 0; i < count; i++ {
		user, token, err := client.RegisterUser(fmt.Sprintf("Clicker%d", i+1))
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i+1, count, err)
			os.Exit(1)
		}

		counter, err := client.DefaultCounter(token)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to load counter: %v\n", i+1, count, err)
			os.Exit(1)
		}

		users = append(users, &fakeUser{user: user, token: token, counter: counter})
		fmt.Printf("  [%d/%d] %s ready (counter %s)\n", i+1, count, user.Username, counter.ID)
	}
	return users
}

// randomOperation performs one weighted random action on the user's counter
func randomOperation(client *APIClient, u *fakeUser) (string, error) {
	var (
		counter *Counter
		err     error
		desc    string
	)

	switch roll := rand.IntN(100); {
	case roll < 45:
		counter, err = client.UpdateValue(u.token, u.counter.ID, 1, "increment")
		desc = "+1"
	case roll < 70:
		counter, err = client.UpdateValue(u.token, u.counter.ID, -1, "decrement")
		desc = "-1"
	case roll < 85 && len(u.counter.CustomButtons) > 0:
		b := u.counter.CustomButtons[rand.IntN(len(u.counter.CustomButtons))]
		counter, err = client.UpdateValue(u.token, u.counter.ID, b.Amount, "custom")
		desc = fmt.Sprintf("button %+d", b.Amount)
	case roll < 95:
		amount := int64(rand.IntN(20) + 1)
		if rand.IntN(2) == 0 {
			amount = -amount
		}
		counter, err = client.AddButton(u.token, u.counter.ID, amount, fmt.Sprintf("%+d", amount))
		desc = fmt.Sprintf("new button %+d", amount)
	default:
		counter, err = client.Reset(u.token, u.counter.ID)
		desc = "reset"
	}
	if err != nil {
		return desc, err
	}

	u.counter = counter
	return desc, nil
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of fake users to create")
	ops := fs.Int("ops", 10, "Random counter operations per user")
	fs.Parse(args)

	if *count < 1 {
		fmt.Println("Error: --count must be at least 1")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Counter Simulator: Populate ===")
	fmt.Println()

	users := registerUsers(client, *count)

	fmt.Println()
	fmt.Printf("Running %d operations per user:\n", *ops)
	for _, u := range users {
		for i := 0; i < *ops; i++ {
			if desc, err := randomOperation(client, u); err != nil {
				fmt.Printf("  %s: %s FAILED: %v\n", u.user.Username, desc, err)
			}
		}
		fmt.Printf("  %s: count=%d buttons=%d\n", u.user.Username, u.counter.CurrentCount, len(u.counter.CustomButtons))
	}

	printActive(client, users[0])
}

func liveCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("live", flag.ExitOnError)
	count := fs.Int("count", 3, "Number of fake users to create")
	duration := fs.Duration("duration", 2*time.Minute, "How long to keep the users online")
	interval := fs.Duration("interval", 20*time.Second, "Time between heartbeats")
	fs.Parse(args)

	if *count < 1 || *interval <= 0 {
		fmt.Println("Error: --count must be at least 1 and --interval positive")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Counter Simulator: Live ===")
	fmt.Println()

	users := registerUsers(client, *count)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Println()
	fmt.Printf("Users online for %s (Ctrl+C to stop early)\n", *duration)
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			fmt.Print("Marking users inactive... ")
			for _, u := range users {
				if err := client.MarkInactive(u.token); err != nil {
					fmt.Printf("\n  %s: %v", u.user.Username, err)
				}
			}
			fmt.Println("OK")
			return
		case <-ticker.C:
			for _, u := range users {
				if err := client.Heartbeat(u.token); err != nil {
					fmt.Printf("  %s: heartbeat FAILED: %v\n", u.user.Username, err)
					continue
				}
				desc, err := randomOperation(client, u)
				if err != nil {
					fmt.Printf("  %s: %s FAILED: %v\n", u.user.Username, desc, err)
					continue
				}
				fmt.Printf("  %s: %s -> %d\n", u.user.Username, desc, u.counter.CurrentCount)
			}
		}
	}
}

func printActive(client *APIClient, u *fakeUser) {
	active, err := client.ActiveUsers(u.token)
	if err != nil {
		fmt.Printf("Warning: failed to list active users: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Printf("Active users seen by %s:\n", u.user.Username)
	for _, a := range active {
		fmt.Printf("  - %s\n", a.Username)
	}
}
