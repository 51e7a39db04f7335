// Example program demonstrating the gitbridge library API.
//
// Run from the repo root:
//
//	go run ./example/
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/MyCarrier-DevOps/go-gitbridge/pkg/sdk"
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "gitbridge-example-")
	if err != nil {
		log.Fatalf("creating temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	client, err := sdk.New(ctx, sdk.Options{
		SignatureName:  "Example",
		SignatureEmail: "example@example.com",
	})
	if err != nil {
		log.Fatalf("creating client: %v", err)
	}

	origin := filepath.Join(dir, "origin")
	clone := filepath.Join(dir, "clone")

	show("init", client.Init(ctx, origin))
	show("clone", client.Clone(ctx, origin, clone))

	if err := os.WriteFile(filepath.Join(origin, "NOTES.md"), []byte("hello\n"), 0o644); err != nil {
		log.Fatalf("writing file: %v", err)
	}
	show("commit", client.Commit(ctx, origin, "Add notes"))
	show("fast-forward", client.FastForward(ctx, clone, "main"))
	show("latest-message", client.LatestMessage(ctx, clone))
	show("list-references", client.ListReferences(ctx, clone))

	// Diverge the clone from origin: only fast-forwards are applied.
	if err := os.WriteFile(filepath.Join(clone, "LOCAL.md"), []byte("local\n"), 0o644); err != nil {
		log.Fatalf("writing file: %v", err)
	}
	show("commit", client.Commit(ctx, clone, "Local change"))
	if err := os.WriteFile(filepath.Join(origin, "REMOTE.md"), []byte("remote\n"), 0o644); err != nil {
		log.Fatalf("writing file: %v", err)
	}
	show("commit", client.Commit(ctx, origin, "Remote change"))
	show("fast-forward", client.FastForward(ctx, clone, "main"))
}

func show(op string, reply sdk.Reply) {
	if reply.OK() {
		fmt.Printf("%-16s ok    %s\n", op, reply.Message)
		return
	}
	fmt.Printf("%-16s error %s\n", op, reply.Outcome)
}
