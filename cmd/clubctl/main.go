package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v9"
	"github.com/johnewart/go-clubmember/client"
	"github.com/johnewart/go-clubmember/club/events"
	"github.com/joho/godotenv"
	"zombiezen.com/go/log"
)

const usage = `usage: clubctl <command> [member]

commands:
  add <member>      add a member (needs CLUB_ROOT_TOKEN)
  remove <member>   remove a member (needs CLUB_ROOT_TOKEN)
  leave             remove CLUB_SIGNER from the club
  list              print current members
  watch             stream membership events (needs REDIS_HOST_PORT)`

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	clusterHost := os.Getenv("CLUB_HOST")
	if clusterHost == "" {
		clusterHost = "localhost"
	}
	clusterPort, err := strconv.Atoi(os.Getenv("CLUB_PORT"))
	if err != nil {
		clusterPort = 9090
	}

	base := client.NewClient(ctx, clusterHost, clusterPort)
	err = run(ctx, base, os.Args[1], os.Args[2:])
	client.Close()
	if err != nil {
		log.Errorf(ctx, "%s: %v", os.Args[1], err)
		os.Exit(1)
	}
}

// credentialsFor attaches only the provenance a command needs. The daemon lets a valid
// root token win over the signer header, so leave must never carry the root token.
func credentialsFor(base *client.Client, command string) *client.Client {
	switch command {
	case "add", "remove":
		return base.AsRoot(os.Getenv("CLUB_ROOT_TOKEN"))
	case "leave":
		return base.AsSigner(os.Getenv("CLUB_SIGNER"))
	default:
		return base
	}
}

func run(ctx context.Context, base *client.Client, command string, args []string) error {
	c := credentialsFor(base, command)

	switch command {
	case "add":
		who, err := memberArg(args)
		if err != nil {
			return err
		}
		return c.AddMember(who)
	case "remove":
		who, err := memberArg(args)
		if err != nil {
			return err
		}
		return c.RemoveMember(who)
	case "leave":
		return c.Leave()
	case "list":
		members, err := c.Members()
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(members, "\n"))
		return nil
	case "watch":
		return watch(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func memberArg(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("expected exactly one member id")
	}
	return args[0], nil
}

func watch(ctx context.Context) error {
	redisHostPort := os.Getenv("REDIS_HOST_PORT")
	if redisHostPort == "" {
		return fmt.Errorf("REDIS_HOST_PORT must be set")
	}
	clubName := os.Getenv("CLUB_NAME")
	if clubName == "" {
		clubName = "default"
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisHostPort})
	defer redisClient.Close()

	stream, err := events.Subscribe(ctx, redisClient, events.ChannelForClub(clubName))
	if err != nil {
		return err
	}

	log.Infof(ctx, "watching club %s", clubName)
	for event := range stream {
		fmt.Printf("%d\t%s\t%s\n", event.Timestamp, event.Type, event.Member)
	}
	return nil
}
